package impl

import (
	"context"
	"log/slog"
	"testing"

	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(store *fakeStore) usecase.UserUsecase {
	return NewUserService(UserServiceParams{
		TxManager:    newFakeTxManager(store),
		Hasher:       fakeHasher{},
		TokenService: fakeTokenService{},
		Logger:       slog.New(slog.DiscardHandler),
	})
}

func TestUserService_RegisterUser(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	out, err := svc.RegisterUser(context.Background(), usecase.RegisterUserInput{
		Name:     "carl",
		Email:    "carl@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "carl", out.User.Name)
	assert.True(t, out.User.Allow, "new accounts start active")
	assert.NotEqual(t, "hunter22", out.User.PasswordHash)
}

func TestUserService_RegisterUser_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	input := usecase.RegisterUserInput{Name: "carl", Email: "carl@example.com", Password: "hunter22"}
	_, err := svc.RegisterUser(context.Background(), input)
	require.NoError(t, err)

	input.Name = "carl again"
	_, err = svc.RegisterUser(context.Background(), input)
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_RegisterUser_MissingFields(t *testing.T) {
	svc := newUserService(newFakeStore())

	_, err := svc.RegisterUser(context.Background(), usecase.RegisterUserInput{Name: "carl"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Login(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	_, err := svc.RegisterUser(context.Background(), usecase.RegisterUserInput{
		Name: "carl", Email: "carl@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	out, err := svc.Login(context.Background(), usecase.LoginInput{
		Email: "carl@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, "refresh-token", out.RefreshToken)

	_, err = svc.Login(context.Background(), usecase.LoginInput{
		Email: "carl@example.com", Password: "wrong",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), usecase.LoginInput{
		Email: "nobody@example.com", Password: "hunter22",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_SetAllow(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	out, err := svc.RegisterUser(context.Background(), usecase.RegisterUserInput{
		Name: "carl", Email: "carl@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetAllow(context.Background(), out.User.ID, false))

	user, err := svc.GetUser(context.Background(), out.User.ID)
	require.NoError(t, err)
	assert.False(t, user.Allow)

	require.NoError(t, svc.SetAllow(context.Background(), out.User.ID, true))

	user, err = svc.GetUser(context.Background(), out.User.ID)
	require.NoError(t, err)
	assert.True(t, user.Allow)

	err = svc.SetAllow(context.Background(), uuid.New(), true)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_DisabledUserKeepsHistoryAccess(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	out, err := svc.RegisterUser(context.Background(), usecase.RegisterUserInput{
		Name: "carl", Email: "carl@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetAllow(context.Background(), out.User.ID, false))

	// Login still works; only order placement is gated on Allow.
	login, err := svc.Login(context.Background(), usecase.LoginInput{
		Email: "carl@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.False(t, login.User.Allow)
	assert.IsType(t, &entity.User{}, login.User)
}
