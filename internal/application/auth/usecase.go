package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
	"github.com/mit-motorsports/purchasing-api/pkg/jwt"
)

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase authentication flows: registration against the approved-email
// directory, and login.
type UseCase struct {
	users     repository.UserRepository
	directory ports.Directory
	jwtCfg    JWTConfig
}

// NewUseCase builds the auth use case.
func NewUseCase(users repository.UserRepository, directory ports.Directory, jwtCfg JWTConfig) *UseCase {
	return &UseCase{users: users, directory: directory, jwtCfg: jwtCfg}
}

// Register creates a user. The role comes from the directory allowlist, never
// from the request. Returns ErrEmailNotApproved for unknown emails and
// ErrEmailAlreadyExists for duplicates.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	role, err := uc.directory.ResolveRole(email)
	if err != nil {
		return nil, err
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifies email/password, records the login and returns token + user.
// Inactive accounts get ErrForbidden.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	user.LastLogin = &now
	user.LoginCount++
	user.UpdatedAt = now
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       string(u.Role),
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		LoginCount: u.LoginCount,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
