package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kamu-koprusu/backend/config"
	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
	"kamu-koprusu/backend/pkg/jwt"
	"kamu-koprusu/backend/pkg/redis"
	"kamu-koprusu/backend/pkg/validate"
)

var (
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrEmailTaken           = errors.New("该邮箱已被注册")
	ErrCredentialsBanned    = errors.New("该凭据已被封禁，无法注册")
	ErrInstitutionRequired  = errors.New("机构代表注册必须指定机构")
	ErrInstitutionCodeWrong = errors.New("机构代码不匹配")
	ErrAccountPendingReview = errors.New("账号等待管理员审核")
	ErrAccountBanned        = errors.New("账号已被封禁")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrOldPasswordWrong     = errors.New("原密码错误")
	ErrRefreshTokenRequired = errors.New("需要 Refresh Token")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	cache  *redis.Client
	audit  AuditService
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	audit AuditService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	phone := validate.Normalize(req.Phone)

	// 1. 封禁凭据快照检查：被封禁的邮箱/手机号不允许重新注册
	banned, err := s.repo.BannedUser.ExistsByEmailOrPhone(ctx, req.Email, phone)
	if err != nil {
		s.logger.Error("封禁凭据检查失败", zap.Error(err))
		return nil, err
	}
	if banned {
		return nil, ErrCredentialsBanned
	}

	// 2. 邮箱唯一性检查
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      phone,
		Role:       model.UserRole(req.Role),
		IsApproved: true,
	}

	// 3. 机构代表注册需校验机构代码，并等待管理员审核
	if user.Role == model.RoleInstitutionRep {
		if req.InstitutionID == "" || req.InstitutionCode == "" {
			return nil, ErrInstitutionRequired
		}
		inst, err := s.repo.Institution.GetByID(ctx, req.InstitutionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInstitutionRequired
			}
			s.logger.Error("查询机构失败", zap.Error(err))
			return nil, err
		}
		if inst.InstitutionCode != req.InstitutionCode {
			return nil, ErrInstitutionCodeWrong
		}
		user.InstitutionID = &inst.InstitutionID
		user.IsApproved = false
	}

	// 4. 密码哈希 (bcrypt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, &user.UserID, "user_registered", "user", &user.UserID,
		"role="+string(user.Role))

	return &dto.RegisterResponse{
		ID:              user.UserID,
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            string(user.Role),
		PendingApproval: !user.IsApproved,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 账号状态检查：未审核与封禁账号拒绝登录
	if !user.IsApproved {
		return nil, ErrAccountPendingReview
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	return s.issueTokens(user, req.RememberMe)
}

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrRefreshTokenRequired
	}

	// 黑名单检查（Redis 不可用时跳过，降级为仅凭签名与有效期）
	if s.cache != nil {
		blacklisted, err := s.cache.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败", zap.Error(err))
		} else if blacklisted {
			return nil, jwt.ErrTokenInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if !user.IsApproved {
		return nil, ErrAccountPendingReview
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	// 旧 Refresh Token 作废，实现单次使用轮换
	s.blacklist(ctx, claims)

	return s.issueTokens(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error {
	s.blacklist(ctx, claims)

	if refreshToken != "" {
		if refreshClaims, err := s.jwtMgr.ParseToken(refreshToken); err == nil {
			s.blacklist(ctx, refreshClaims)
		}
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, &userID, "password_changed", "user", &userID, "")
	return nil
}

// ── 内部辅助 ──

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	instID := ""
	if user.InstitutionID != nil {
		instID = *user.InstitutionID
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, string(user.Role), instID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, string(user.Role), instID, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// blacklist 按剩余有效期将 Token 加入黑名单；Redis 不可用时静默跳过
func (s *authService) blacklist(ctx context.Context, claims *jwt.Claims) {
	if s.cache == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.Error(err))
	}
}
