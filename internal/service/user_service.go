package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
	"kamu-koprusu/backend/pkg/validate"
)

// UserService 用户业务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 用户主表字段
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = validate.Normalize(*req.Phone)
	}
	if req.FullName != nil || req.Phone != nil {
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("更新用户失败", zap.Error(err))
			return nil, err
		}
	}

	// 资料表字段（upsert）
	if req.Bio != nil || req.City != nil || req.District != nil || req.ProfilePictureURL != nil {
		profile := user.Profile
		if profile == nil {
			profile = &model.Profile{UserID: userID}
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.City != nil {
			profile.City = *req.City
		}
		if req.District != nil {
			profile.District = *req.District
		}
		if req.ProfilePictureURL != nil {
			profile.ProfilePictureURL = *req.ProfilePictureURL
		}
		profile.UpdatedAt = time.Now()

		if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
			s.logger.Error("更新用户资料失败", zap.Error(err))
			return nil, err
		}
		user.Profile = profile
	}

	return toProfileResponse(user), nil
}

func toProfileResponse(user *model.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{User: toUserResponse(user)}
	if user.Profile != nil {
		resp.Bio = user.Profile.Bio
		resp.City = user.Profile.City
		resp.District = user.Profile.District
		resp.ProfilePictureURL = user.Profile.ProfilePictureURL
	}
	return resp
}
