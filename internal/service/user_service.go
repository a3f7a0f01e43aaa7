package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kabir4874/AnondoShop-Backend/internal/apperr"
	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
	"github.com/Kabir4874/AnondoShop-Backend/internal/repository"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	SetPassword(ctx context.Context, userID, passwordHash string) error
}

// UserService covers what checkout and the auth boundary need from
// accounts; full profile management lives elsewhere.
type UserService struct {
	users  UserStore
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureByPhone finds the account owning phone, creating a
// passwordless one when checkout sees the number for the first time.
// The phone must already be in canonical form (callers validate the
// address first).
func (s *UserService) EnsureByPhone(ctx context.Context, phone, name string) (*domain.User, error) {
	phone = domain.NormalizePhone(phone)
	if !domain.ValidPhone(phone) {
		return nil, apperr.Validation(errors.New("invalid Bangladesh phone number"))
	}

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &domain.User{
		UserID:     uuid.New().String(),
		Phone:      phone,
		Name:       name,
		CartData:   map[string]float64{},
		CreatedVia: domain.CreatedViaCheckout,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent checkout with the same number won the create;
		// the winner's account is the one to use.
		if errors.Is(err, repository.ErrUserExists) {
			return s.users.GetUserByPhone(ctx, phone)
		}
		return nil, err
	}

	s.logger.Info("Account created at checkout",
		zap.String("user_id", user.UserID))
	return user, nil
}

// Register creates an account with a password, or sets the password on
// a checkout-created account that has none yet.
func (s *UserService) Register(ctx context.Context, phone, password, name string) (*domain.User, error) {
	phone = domain.NormalizePhone(phone)
	if !domain.ValidPhone(phone) {
		return nil, apperr.Validation(errors.New("invalid Bangladesh phone number"))
	}
	if len(password) < 8 {
		return nil, apperr.Validation(errors.New("password must be at least 8 characters"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.PasswordHash != "" {
			return nil, fmt.Errorf("%w: account already registered", apperr.ErrConflict)
		}
		if err := s.users.SetPassword(ctx, existing.UserID, string(hash)); err != nil {
			return nil, err
		}
		existing.PasswordHash = string(hash)
		return existing, nil

	case errors.Is(err, repository.ErrUserNotFound):
		user := &domain.User{
			UserID:       uuid.New().String(),
			Phone:        phone,
			Name:         name,
			PasswordHash: string(hash),
			CartData:     map[string]float64{},
			CreatedVia:   domain.CreatedViaRegister,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserExists) {
				return nil, fmt.Errorf("%w: account already registered", apperr.ErrConflict)
			}
			return nil, err
		}
		return user, nil

	default:
		return nil, err
	}
}

// Login verifies phone+password. Accounts created at checkout have no
// password yet and cannot log in until one is set.
func (s *UserService) Login(ctx context.Context, phone, password string) (*domain.User, error) {
	phone = domain.NormalizePhone(phone)

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: invalid phone or password", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: password not set for this number", apperr.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid phone or password", apperr.ErrUnauthorized)
	}
	return user, nil
}
