package jwt

import (
	"testing"
	"time"

	"kamu-koprusu/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-at-least-16-chars",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTL:         24 * time.Hour,
		RefreshTokenTTLRemember: 168 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateAccessToken("uid-001", "citizen", "")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "uid-001" {
		t.Errorf("期望 UserID=uid-001，实际=%s", claims.UserID)
	}
	if claims.Role != "citizen" {
		t.Errorf("期望 Role=citizen，实际=%s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("期望 jti 非空")
	}
}

func TestGenerateRefreshToken_InstitutionRep(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateRefreshToken("uid-002", "institution_rep", "inst-01", true)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际=%s", claims.TokenType)
	}
	if claims.InstitutionID != "inst-01" {
		t.Errorf("期望 InstitutionID=inst-01，实际=%s", claims.InstitutionID)
	}
	if !claims.RememberMe {
		t.Error("期望 RememberMe=true")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	mgr := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-16-chars!",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := mgr.GenerateAccessToken("uid-001", "citizen", "")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	mgr := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: -time.Minute, // 签发即过期
	})

	token, err := mgr.GenerateAccessToken("uid-001", "citizen", "")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := mgr.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}
