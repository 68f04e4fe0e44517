package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/oncolab/sampletrack/internal/config"
	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/pkg/auth"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	cfg        config.AuthConfig
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, auditSvc *AuditService, cfg config.AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, auditSvc: auditSvc, cfg: cfg, log: log}
}

// Login authenticates a user and issues a token pair. In allow-any mode
// (the lab's current stub) every credential pair is accepted and granted
// full access; otherwise the password is verified against the user store.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, error) {
	claims, err := s.resolveClaims(ctx, email, password, ip)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:    claims.UserID,
		UserEmail: claims.Email,
		Action:    domain.ActionUserLogin,
		IPAddress: ip,
	})
	s.log.Info("user logged in",
		zap.String("email", claims.Email),
		zap.String("ip", ip),
	)

	return pair, nil
}

func (s *AuthService) resolveClaims(ctx context.Context, email, password, ip string) (*domain.Claims, error) {
	if s.cfg.AllowAny {
		return &domain.Claims{
			UserID: uuid.New(),
			Email:  email,
			Role:   domain.RoleFullAccess,
		}, nil
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Dummy hash keeps the response time flat so the email cannot be
		// enumerated.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.RecordLogin(ctx, user.ID, time.Now())

	return &domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// RefreshToken issues a new access token given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.cfg.AllowAny {
		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil || !user.IsActive {
			return nil, ErrInvalidCredentials
		}
		claims = &domain.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}
	}

	return s.jwtManager.GenerateTokenPair(claims)
}
