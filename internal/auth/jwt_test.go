package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "42", "Alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	id := claims.Identity()
	if id.UserID != "42" || id.Name != "Alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	cfg := testJWTConfig()

	other := *cfg
	other.Secret = []byte("another-secret")
	foreign, _ := GenerateToken(&other, "42", "")

	wrongAud := *cfg
	wrongAud.Audience = "elsewhere"
	wrongAudToken, _ := GenerateToken(&wrongAud, "42", "")

	expiredCfg := *cfg
	expiredCfg.TTL = -time.Minute
	expired, _ := GenerateToken(&expiredCfg, "42", "")

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(cfg.Secret)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not-a-token", want: ErrInvalidToken},
		{name: "wrong secret", token: foreign, want: ErrInvalidToken},
		{name: "wrong audience", token: wrongAudToken, want: ErrInvalidToken},
		{name: "expired", token: expired, want: ErrInvalidToken},
		{name: "no subject", token: noSub, want: ErrMissingSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(cfg, tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIdentityFallsBackToSubject(t *testing.T) {
	cfg := testJWTConfig()
	token, _ := GenerateToken(cfg, "7", "")

	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id := claims.Identity(); id.Name != "7" {
		t.Fatalf("expected name fallback to subject, got %+v", id)
	}
}
