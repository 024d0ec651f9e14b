// internal/domain/user/service.go
package user

import (
	"context"
	"errors"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles account registration and authentication
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents registration data. Shop accounts must
// name their store; a store is created alongside the account.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	StoreName string `json:"store_name"`
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new account. Shop registrations create the
// account and its store in one transaction so neither exists alone.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	role := Role(req.Role)
	if req.Role == "" {
		role = RoleBuyer
	}
	if !role.Valid() || role == RoleAdmin {
		return nil, apperrors.Validation("role must be buyer or shop")
	}
	if role == RoleShop && req.StoreName == "" {
		return nil, apperrors.Validation("store_name is required for shop accounts")
	}

	var existing User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperrors.Validation("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing account", err)
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	u := User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if role != RoleShop {
			return nil
		}
		st := store.Store{OwnerID: u.ID, Name: req.StoreName, IsActive: true}
		if err := tx.Create(&st).Error; err != nil {
			return err
		}
		u.StoreID = &st.ID
		return tx.Model(&u).Update("store_id", st.ID).Error
	})
	if err != nil {
		return nil, apperrors.Internal("failed to create account", err)
	}

	return s.issueTokens(&u)
}

// Login authenticates an account.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", req.Email, true).First(&u).Error; err != nil {
		return nil, apperrors.Authorization("invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, apperrors.Authorization("invalid email or password")
	}

	return s.issueTokens(&u)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Authorization("invalid refresh token")
	}

	var u User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", claims.UserID, true).First(&u).Error; err != nil {
		return nil, apperrors.Authorization("account not found or inactive")
	}

	return s.issueTokens(&u)
}

// GetProfile returns the account behind an actor.
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Internal("failed to load account", err)
	}
	return &u, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, string(u.Role), u.StoreID)
	if err != nil {
		return nil, apperrors.Internal("failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
