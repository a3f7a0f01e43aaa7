package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/apperr"
	"github.com/Kabir4874/AnondoShop-Backend/internal/domain"
	"github.com/Kabir4874/AnondoShop-Backend/internal/repository"
)

type fakeUserStore struct {
	byPhone map[string]*domain.User

	// simulates losing a concurrent create for the same phone: lookups
	// miss until CreateUser, which installs the winner and reports the
	// conflict the caller would see from the store.
	racing bool
	winner *domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byPhone: map[string]*domain.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *domain.User) error {
	if f.racing {
		f.racing = false
		f.byPhone[f.winner.Phone] = f.winner
		return repository.ErrUserExists
	}
	cp := *u
	f.byPhone[u.Phone] = &cp
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.byPhone {
		if u.UserID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByPhone(_ context.Context, phone string) (*domain.User, error) {
	if f.racing {
		return nil, repository.ErrUserNotFound
	}
	u, ok := f.byPhone[phone]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, id, hash string) error {
	for _, u := range f.byPhone {
		if u.UserID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func TestEnsureByPhone(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	first, err := svc.EnsureByPhone(context.Background(), "01712345678", "Rahim Uddin")
	require.NoError(t, err)
	assert.Equal(t, "+8801712345678", first.Phone)
	assert.Empty(t, first.PasswordHash)
	assert.Equal(t, domain.CreatedViaCheckout, first.CreatedVia)

	// same number in another form resolves to the same account
	second, err := svc.EnsureByPhone(context.Background(), "+88 017 1234 5678", "")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Len(t, store.byPhone, 1)
}

func TestEnsureByPhoneLosesCreateRace(t *testing.T) {
	store := newFakeUserStore()
	store.racing = true
	store.winner = &domain.User{
		UserID:     "winner",
		Phone:      "+8801712345678",
		CreatedVia: domain.CreatedViaCheckout,
	}
	svc := NewUserService(store, zap.NewNop())

	user, err := svc.EnsureByPhone(context.Background(), "01712345678", "Rahim Uddin")
	require.NoError(t, err)
	assert.Equal(t, "winner", user.UserID)
	assert.Len(t, store.byPhone, 1)
}

func TestEnsureByPhoneRejectsInvalid(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zap.NewNop())
	_, err := svc.EnsureByPhone(context.Background(), "12345", "")
	require.ErrorIs(t, err, apperr.ErrInvalidAddress)
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	_, err := svc.Register(context.Background(), "01712345678", "hunter2hunter2", "Rahim Uddin")
	require.NoError(t, err)

	t.Run("login succeeds", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "01712345678", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "+8801712345678", user.Phone)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "01712345678", "wrong-password")
		require.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("re-register conflicts", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "01712345678", "hunter2hunter2", "")
		require.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestRegisterSetsPasswordOnCheckoutAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	guest, err := svc.EnsureByPhone(context.Background(), "01712345678", "Rahim Uddin")
	require.NoError(t, err)

	// checkout-created account cannot log in yet
	_, err = svc.Login(context.Background(), "01712345678", "whatever1")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	registered, err := svc.Register(context.Background(), "01712345678", "hunter2hunter2", "")
	require.NoError(t, err)
	assert.Equal(t, guest.UserID, registered.UserID)

	_, err = svc.Login(context.Background(), "01712345678", "hunter2hunter2")
	require.NoError(t, err)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zap.NewNop())
	_, err := svc.Register(context.Background(), "01712345678", "short", "")
	require.ErrorIs(t, err, apperr.ErrInvalidAddress)
}
