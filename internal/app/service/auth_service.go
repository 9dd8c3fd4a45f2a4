package service

import (
	"context"
	"errors"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// AuthGateway is the slice of the store API the identity holder needs.
// Satisfied by *storeapi.Client.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Signup(ctx context.Context, req storeapi.SignupRequest) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*model.User, error)
}

// AuthService tracks who the shopper session is acting as. Credentials
// live upstream; this service only holds the resulting identity and
// token per session.
type AuthService interface {
	Login(ctx context.Context, sessionID, username, password string) (*model.Identity, error)
	Signup(ctx context.Context, sessionID string, req storeapi.SignupRequest) (*model.Identity, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.Identity, error)
}

type authService struct {
	gateway     AuthGateway
	sessionRepo repository.SessionRepository
	identityTTL time.Duration
}

func NewAuthService(gateway AuthGateway, sessionRepo repository.SessionRepository, identityTTL time.Duration) AuthService {
	return &authService{
		gateway:     gateway,
		sessionRepo: sessionRepo,
		identityTTL: identityTTL,
	}
}

// Login authenticates upstream and replaces whatever identity the
// session held before. Calling it while already signed in re-auths.
func (s *authService) Login(ctx context.Context, sessionID, username, password string) (*model.Identity, error) {
	user, token, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, storeapi.ErrAuthFailed) {
			logger.Warn("Login refused", map[string]interface{}{
				"session_id": sessionID,
				"username":   username,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	identity := &model.Identity{
		Kind:  model.IdentityAuthenticated,
		User:  user,
		Token: token,
	}
	if err := s.sessionRepo.SaveIdentity(sessionID, identity, s.identityTTL); err != nil {
		return nil, err
	}

	logger.Info("Shopper signed in", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.ID,
	})
	return identity, nil
}

// Signup creates the account upstream and signs the session in as it.
func (s *authService) Signup(ctx context.Context, sessionID string, req storeapi.SignupRequest) (*model.Identity, error) {
	user, token, err := s.gateway.Signup(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, storeapi.ErrEmailTaken):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, storeapi.ErrAuthFailed):
			return nil, ErrInvalidCredentials
		}
		logger.Error("Signup failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	identity := &model.Identity{
		Kind:  model.IdentityAuthenticated,
		User:  user,
		Token: token,
	}
	if err := s.sessionRepo.SaveIdentity(sessionID, identity, s.identityTTL); err != nil {
		return nil, err
	}

	logger.Info("Account created and signed in", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.ID,
	})
	return identity, nil
}

// Logout drops the session back to anonymous. A no-op when the session
// is not signed in; upstream token invalidation is best effort.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	identity, err := s.sessionRepo.GetIdentity(sessionID)
	if err != nil {
		return err
	}
	if identity.Kind == model.IdentityAnonymous {
		return nil
	}

	if identity.Token != "" {
		if err := s.gateway.Logout(ctx, identity.Token); err != nil {
			logger.Warn("Upstream logout failed, clearing local identity anyway", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	if err := s.sessionRepo.ClearIdentity(sessionID); err != nil {
		return err
	}

	logger.Info("Shopper signed out", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

// CurrentUser returns the session's identity, revalidating the upstream
// token when one is held. A token the store no longer honors downgrades
// the session to anonymous.
func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*model.Identity, error) {
	identity, err := s.sessionRepo.GetIdentity(sessionID)
	if err != nil {
		return nil, err
	}
	if identity.Kind != model.IdentityAuthenticated || identity.Token == "" {
		return identity, nil
	}

	user, err := s.gateway.Me(ctx, identity.Token)
	if err != nil {
		if errors.Is(err, storeapi.ErrUnauthorized) {
			logger.Info("Stored token no longer valid, dropping to anonymous", map[string]interface{}{
				"session_id": sessionID,
			})
			if err := s.sessionRepo.ClearIdentity(sessionID); err != nil {
				return nil, err
			}
			return model.Anonymous(), nil
		}
		// transient upstream trouble: answer from what we have
		logger.Warn("Could not revalidate identity, using cached user", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return identity, nil
	}

	identity.User = user
	return identity, nil
}
