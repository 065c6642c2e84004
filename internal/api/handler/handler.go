package handler

import "kamu-koprusu/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Complaint    *ComplaintHandler
	Moderation   *ModerationHandler
	Gamification *GamificationHandler
	Institution  *InstitutionHandler
	Admin        *AdminHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User, svc.Moderation),
		Complaint:    NewComplaintHandler(svc.Complaint),
		Moderation:   NewModerationHandler(svc.Moderation),
		Gamification: NewGamificationHandler(svc.Gamification),
		Institution:  NewInstitutionHandler(svc.Institution, svc.Export),
		Admin:        NewAdminHandler(svc.Admin, svc.Audit, svc.Export),
	}
}
