package http

import (
	"errors"
	"fmt"
	stdhttp "net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/classroom-server/internal/auth"
	"github.com/vovakirdan/classroom-server/internal/config"
)

var errUnauthorized = errors.New("unauthorized")

// identityResolver turns a request into the user behind it. Tokens come from
// the Authorization header or, for browsers opening a websocket, the token
// query parameter. Without a token, guests are admitted unless JWT is required.
type identityResolver struct {
	jwt      *auth.JWTConfig
	required bool
}

func newIdentityResolver(cfg *config.Config) *identityResolver {
	ir := &identityResolver{required: cfg.JWTRequired}
	if cfg.JWTSecret != "" {
		ir.jwt = &auth.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}
	}
	return ir
}

func (ir *identityResolver) resolve(r *stdhttp.Request) (auth.Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return auth.Identity{}, err
	}
	if token != "" && ir.jwt != nil {
		claims, err := auth.ValidateToken(ir.jwt, token)
		if err != nil {
			return auth.Identity{}, fmt.Errorf("%w: %w", errUnauthorized, err)
		}
		return claims.Identity(), nil
	}
	if ir.required {
		return auth.Identity{}, fmt.Errorf("%w: missing token", errUnauthorized)
	}

	q := r.URL.Query()
	id := auth.Identity{UserID: strings.TrimSpace(q.Get("user")), Name: strings.TrimSpace(q.Get("name"))}
	if id.UserID == "" {
		id.UserID = "guest-" + uuid.NewString()
	}
	if id.Name == "" {
		id.Name = "Anonymous"
	}
	return id, nil
}

func bearerToken(r *stdhttp.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return r.URL.Query().Get("token"), nil
	}
	// Extract token from "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("%w: invalid authorization header format", errUnauthorized)
	}
	return parts[1], nil
}
