package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kamu-koprusu/backend/config"
	"kamu-koprusu/backend/internal/api/handler"
	"kamu-koprusu/backend/internal/api/middleware"
	"kamu-koprusu/backend/pkg/jwt"
	"kamu-koprusu/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB
	r.Use(middleware.ClientIP())

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，注册/登录加限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开模块
		v1.GET("/complaints", h.Complaint.ListPublic)
		v1.GET("/complaints/types", h.Complaint.ListTypes)
		v1.GET("/complaints/:id", middleware.OptionalJWTAuth(jwtMgr, rdb), h.Complaint.GetDetail)
		v1.GET("/institutions", h.Institution.ListInstitutions)
		v1.GET("/institutions/:id", h.Institution.GetInstitution)
		v1.GET("/badges", h.Gamification.ListBadges)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMyProfile)
				users.PUT("/me", h.User.UpdateMyProfile)
				users.GET("/me/achievements", h.Gamification.GetMyAchievements)
				users.GET("/me/warnings", h.User.ListMyWarnings)
			}

			// 投诉模块（市民侧）
			complaints := authorized.Group("/complaints")
			{
				complaints.POST("", middleware.RateLimit(rdb, 10, time.Hour), h.Complaint.Create)
				complaints.GET("/my", h.Complaint.ListMine)
				complaints.PUT("/:id", h.Complaint.Edit)
				complaints.DELETE("/:id", h.Complaint.Cancel)
			}

			// 审核模块
			moderation := authorized.Group("/moderation")
			moderation.Use(middleware.RoleAuth("moderator", "admin"))
			{
				moderation.GET("/pending", h.Moderation.ListPending)
				moderation.POST("/complaints/:id/approve", h.Moderation.Approve)
				moderation.POST("/complaints/:id/reject", h.Moderation.Reject)
				moderation.POST("/users/:id/warn", h.Moderation.WarnUser)
				moderation.GET("/users/:id/warnings", h.Moderation.ListUserWarnings)
			}

			// 机构模块（机构代表侧）
			institution := authorized.Group("/institution")
			institution.Use(middleware.RoleAuth("institution_rep"))
			{
				institution.PUT("/profile", h.Institution.UpdateMyInstitution)
				institution.GET("/complaints", h.Institution.ListAssigned)
				institution.PUT("/complaints/:id/status", h.Institution.UpdateStatus)
				institution.GET("/complaints/calendar", h.Institution.ExportFollowUpCalendar)
			}

			// 管理模块
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth("admin"))
			{
				admin.GET("/dashboard", h.Admin.Dashboard)
				admin.GET("/users", h.Admin.ListUsers)
				admin.POST("/users/:id/approve", h.Admin.ApproveUser)
				admin.POST("/users/:id/ban", h.Admin.BanUser)
				admin.POST("/users/:id/unban", h.Admin.UnbanUser)
				admin.DELETE("/users/:id", h.Admin.DeleteUser)
				admin.POST("/moderators", h.Admin.AssignModerator)
				admin.DELETE("/moderators/:id", h.Admin.RemoveModerator)
				admin.DELETE("/complaints/:id", h.Admin.DeleteComplaint)
				admin.GET("/reports", h.Admin.Report)
				admin.GET("/reports/export", h.Admin.ExportReport)
				admin.GET("/audit-logs", h.Admin.ListAuditLogs)
			}
		}
	}

	return r
}
