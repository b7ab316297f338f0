package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/pkg/cache"
	"github.com/estatehub/estatehub-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService account registration and token issuance
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Service
}

// NewAuthService creates a new AuthService. cache may be nil; logout then
// only clears cookies and refresh tokens stay valid until they expire.
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, c cache.Service) AuthService {
	if c == nil {
		c = cache.NewService(nil)
	}
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cache:      c,
	}
}

// Register creates a BUYER or SELLER account and signs it in
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleAdmin {
		return nil, common.NewValidationError("role", "must be BUYER or SELLER")
	}

	email := normalizeEmail(req.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, common.ErrUserNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	return s.issue(user)
}

// Refresh mints a new token pair from a valid, unrevoked refresh token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
	}
	if s.revoked(ctx, claims.ID) {
		return nil, fmt.Errorf("refresh token revoked: %w", common.ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, common.ErrUserNotFound) {
		return nil, fmt.Errorf("account no longer exists: %w", common.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return &resp.Tokens, nil
}

// Logout revokes the refresh token when one is presented. An invalid token is ignored.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	s.revoke(ctx, claims)
	return nil
}

func (s *authService) issue(user *domain.User) (*domain.AuthResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		User:   user,
		Tokens: domain.TokenPair{Access: access, Refresh: refresh},
	}, nil
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	_ = s.cache.Set(ctx, cache.PrefixRevoked+claims.ID, true, ttl)
}

func (s *authService) revoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	var flag bool
	return s.cache.Get(ctx, cache.PrefixRevoked+jti, &flag) == nil && flag
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
