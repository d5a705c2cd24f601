package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RevocationStore is optional; without it signed-out tokens stay valid until
// expiry. A store that cannot be read is treated the same way: the token is
// accepted on its signature alone and the failure is logged.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service struct {
	jwt         *JWTManager
	revocations RevocationStore
	log         *zap.Logger
	now         func() time.Time
}

func NewService(jwtManager *JWTManager, revocations RevocationStore) *Service {
	return &Service{
		jwt:         jwtManager,
		revocations: revocations,
		log:         zap.NewNop(),
		now:         time.Now,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	if s.jwt == nil {
		return AccessClaims{}, fmt.Errorf("jwt manager is nil")
	}

	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	if s.revocations != nil && claims.TokenID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			s.log.Warn("revocation check failed, accepting token",
				zap.String("user_id", claims.UserID),
				zap.String("token_id", claims.TokenID),
				zap.Error(err),
			)
			return claims, nil
		}
		if revoked {
			return AccessClaims{}, ErrUnauthorized
		}
	}

	return claims, nil
}

// Logout revokes the token behind identity until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, identity Identity) error {
	if strings.TrimSpace(identity.TokenID) == "" {
		return ErrInvalidInput
	}
	if s.revocations == nil {
		return nil
	}

	until := identity.ExpiresAt
	if until.IsZero() || until.Before(s.now()) {
		return nil
	}
	if err := s.revocations.Revoke(ctx, identity.TokenID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
