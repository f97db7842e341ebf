package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"worksync/internal/cache"
	"worksync/internal/model"
	"worksync/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type APIKeyResponse struct {
	APIKey    string `json:"api_key"`
	CreatedAt string `json:"created_at"`
}

// UserService covers accounts, sessions and API keys
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	CreateAPIKey(ctx context.Context, userID uint) (*APIKeyResponse, error)
	GetAPIKey(ctx context.Context, userID uint) (*APIKeyResponse, error)
	DeleteAPIKey(ctx context.Context, userID uint) error
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	repo      repository.UserRepository
	keys      repository.APIKeyRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	blacklist cache.TokenBlacklist
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	keys repository.APIKeyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	blacklist cache.TokenBlacklist,
	secret []byte,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		repo:      repo,
		keys:      keys,
		auditRepo: auditRepo,
		txManager: txManager,
		blacklist: blacklist,
		secret:    secret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalidInput("username is required")
	}
	user, err := s.createUser(ctx, username, req.Password, model.RoleEmployee, func(u *model.User) {
		u.FirstName = req.FirstName
		u.LastName = req.LastName
		u.Email = req.Email
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) createUser(ctx context.Context, username, password, role string, fill func(*model.User)) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &model.User{Username: username, Password: string(hashed), Role: role}
	if fill != nil {
		fill(user)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByUsername(txCtx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}
		if err := s.repo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, Actor{ID: user.ID, Role: role}, model.ActionRegisterUser, "user", user.ID, user.Username, map[string]string{"role": role})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: tokenString, ExpiresAt: expiresAt.UTC(), User: *mapToResponse(user)}, nil
}

// Logout revokes the token id until the token would have expired on its own.
func (s *userService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, tokenID, expiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "user")
	}
	return mapToResponse(user), nil
}

// CreateAPIKey issues a new key, replacing any existing one.
func (s *userService) CreateAPIKey(ctx context.Context, userID uint) (*APIKeyResponse, error) {
	key := &model.APIKey{UserID: userID, Key: strings.ReplaceAll(uuid.NewString(), "-", "")}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.keys.Replace(txCtx, key); err != nil {
			return fmt.Errorf("failed to store api key: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, Actor{ID: userID}, model.ActionCreateAPIKey, "api_key", key.ID, "", nil)
	})
	if err != nil {
		return nil, err
	}
	return &APIKeyResponse{APIKey: key.Key, CreatedAt: formatTime(key.CreatedAt)}, nil
}

func (s *userService) GetAPIKey(ctx context.Context, userID uint) (*APIKeyResponse, error) {
	key, err := s.keys.GetByUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAPIKeyNotFound, "api key")
	}
	return &APIKeyResponse{APIKey: key.Key, CreatedAt: formatTime(key.CreatedAt)}, nil
}

func (s *userService) DeleteAPIKey(ctx context.Context, userID uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.keys.DeleteByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to delete api key: %w", err)
		}
		if !deleted {
			return ErrAPIKeyNotFound
		}
		return writeAudit(txCtx, s.auditRepo, Actor{ID: userID}, model.ActionDeleteAPIKey, "api_key", userID, "", nil)
	})
}

// EnsureAdmin creates the seed admin account on first run. An existing user of that name is left alone.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	}
	if _, err := s.createUser(ctx, username, password, model.RoleAdmin, nil); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil
		}
		return err
	}
	log.Printf("Seeded admin user %q", username)
	return nil
}
