package service

import (
	"time"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
)

// ── 模型 → DTO 共享转换 ──

func toInstitutionBrief(inst *model.Institution) *dto.InstitutionBrief {
	if inst == nil {
		return nil
	}
	return &dto.InstitutionBrief{
		ID:   inst.InstitutionID,
		Name: inst.Name,
		Type: inst.Type,
	}
}

func toUserBrief(user *model.User) *dto.UserBrief {
	if user == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:       user.UserID,
		FullName: user.FullName,
		Level:    string(user.Level),
	}
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.UserID,
		FullName:        user.FullName,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            string(user.Role),
		Level:           string(user.Level),
		ReputationScore: user.ReputationScore,
		IsApproved:      user.IsApproved,
		IsBanned:        user.IsBanned,
		Institution:     toInstitutionBrief(user.Institution),
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
}

func toMediaResponse(m *model.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:            m.MediaID,
		Type:          string(m.Type),
		FileName:      m.FileName,
		FilePath:      m.FilePath,
		FileSizeBytes: m.FileSizeBytes,
	}
}

func toComplaintUpdateResponse(u *model.ComplaintUpdate) dto.ComplaintUpdateResponse {
	return dto.ComplaintUpdateResponse{
		ID:        u.UpdateID,
		Message:   u.Message,
		NewStatus: string(u.NewStatus),
		UpdatedBy: toUserBrief(u.UpdatedBy),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// toComplaintResponse 投诉列表项转换
// 匿名投诉不输出提交者信息
func toComplaintResponse(c *model.Complaint) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:              c.ComplaintID,
		Title:           c.Title,
		Type:            string(c.Type),
		Category:        c.Category,
		Status:          string(c.Status),
		IsAnonymous:     c.IsAnonymous,
		RejectionReason: c.RejectionReason,
		Location:        c.Location,
		Institution:     toInstitutionBrief(c.Institution),
		MediaCount:      len(c.MediaFiles),
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
	if !c.IsAnonymous {
		resp.Submitter = toUserBrief(c.User)
	}
	if c.ResolvedAt != nil {
		s := c.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &s
	}
	return resp
}

func toComplaintDetailResponse(c *model.Complaint) *dto.ComplaintDetailResponse {
	detail := &dto.ComplaintDetailResponse{
		ComplaintResponse: toComplaintResponse(c),
		Description:       c.Description,
		Latitude:          c.Latitude,
		Longitude:         c.Longitude,
	}
	for i := range c.MediaFiles {
		detail.MediaFiles = append(detail.MediaFiles, toMediaResponse(&c.MediaFiles[i]))
	}
	for i := range c.Updates {
		detail.Updates = append(detail.Updates, toComplaintUpdateResponse(&c.Updates[i]))
	}
	return detail
}

func toBadgeResponse(b *model.Badge) dto.BadgeResponse {
	return dto.BadgeResponse{
		ID:            b.BadgeID,
		Name:          b.Name,
		Description:   b.Description,
		IconClass:     b.IconClass,
		Criteria:      string(b.CriteriaType),
		RequiredCount: b.RequiredCount,
		Points:        b.Points(),
	}
}
