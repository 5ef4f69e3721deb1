package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"
	"eventhub-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error) {
	if strings.TrimSpace(input.Email) == "" || len(input.Password) < 6 {
		return nil, nil, fmt.Errorf("%w: email and a password of at least 6 characters are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         domain.UserRoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("User registered", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// same error whether the account exists or not
		return nil, nil, domain.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, nil, domain.ErrAccountBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Warn("Failed to record login", "userID", user.ID, "error", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates signature, expiry, and store presence, then rotates the
// stored token. Rotation is a conditional swap in the store, so of two
// concurrent calls with the same token at most one session survives.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			// fail closed: drop the stored row so the token cannot linger
			_ = s.sessionRepo.DeleteByToken(ctx, refreshToken)
		}
		return nil, err
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.sessionRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = s.sessionRepo.DeleteByToken(ctx, refreshToken)
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if user.IsBlocked {
		return nil, domain.ErrAccountBlocked
	}

	newRefresh, expiresAt, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Rotate(ctx, user.ID, refreshToken, newRefresh, expiresAt); err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, refreshToken)
}

func (s *authService) VerifyAccess(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != security.TokenTypeAccess {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if user.IsBlocked {
		return nil, domain.ErrAccountBlocked
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	// one session row per user: this invalidates any previous refresh token
	session := &domain.Session{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
		CreatedOn: time.Now(),
	}
	if err := s.sessionRepo.Replace(ctx, session); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
