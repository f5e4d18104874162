package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"claimhub/internal/cache"
	"claimhub/internal/errors"
	"claimhub/internal/model"
	"claimhub/internal/repository"
)

const (
	userCacheTTL = 5 * time.Minute
	bcryptCost   = 10
)

// CreateUserInput is HR's payload for provisioning a user.
type CreateUserInput struct {
	Email             string
	FirstName         string
	LastName          string
	Role              model.Role
	Department        string
	HourlyRate        decimal.Decimal
	TemporaryPassword string
}

// UpdateUserInput carries the HR-editable fields of a user record.
type UpdateUserInput struct {
	FirstName  string
	LastName   string
	Role       model.Role
	Department string
	HourlyRate decimal.Decimal
	Active     bool
}

// UserService handles HR user management. User records are the rate
// authority for claim pricing; the claim core only ever reads them.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	userRepo  repository.UserRepository
	claimRepo repository.ClaimRepository
	cache     *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(userRepo repository.UserRepository, claimRepo repository.ClaimRepository, cache *cache.Client) UserService {
	return &userService{userRepo: userRepo, claimRepo: claimRepo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// CreateUser provisions a user with a hashed temporary password.
func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if !model.ValidRole(input.Role) {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.TemporaryPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Department:   input.Department,
		HourlyRate:   input.HourlyRate,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies HR edits (rate, role, department) to a user record.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	if !model.ValidRole(input.Role) {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Role = input.Role
	user.Department = input.Department
	user.HourlyRate = input.HourlyRate
	user.Active = input.Active

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// GetUser retrieves a user by ID with caching.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// ListUsers lists all users.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes a user unless they own claims; claims are append-only,
// so their owners must stay resolvable.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	hasClaims, err := s.claimRepo.ExistsForOwner(ctx, id)
	if err != nil {
		return fmt.Errorf("check user claims: %w", err)
	}
	if hasClaims {
		return errors.ErrUserHasClaims
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
