package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/strides/internal/fixtures"
	"github.com/amirasaad/strides/internal/fixtures/mocks"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/domain/user"
	authsvc "github.com/amirasaad/strides/pkg/service/auth"
	usersvc "github.com/amirasaad/strides/pkg/service/user"
	"github.com/amirasaad/strides/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var jwtCfg = &config.Jwt{Secret: "test-secret", Expiry: time.Hour}

func setup(t *testing.T) (*authsvc.Service, *usersvc.Service) {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost
	uow := fixtures.NewUoW(fixtures.NewStore())
	return authsvc.NewWithJWT(uow, jwtCfg, slog.Default()), usersvc.New(uow, slog.Default())
}

func TestCheckPasswordHash(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	s := authsvc.New(nil, nil, slog.Default())
	assert.True(t, s.CheckPasswordHash("password", string(hash)))
	assert.False(t, s.CheckPasswordHash("wrong", string(hash)))
}

func TestLogin_Success(t *testing.T) {
	auth, users := setup(t)
	created, err := users.Signup(context.Background(), "bob@example.com", "correct-horse")
	require.NoError(t, err)

	u, err := auth.Login(context.Background(), "Bob@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, users := setup(t)
	_, err := users.Signup(context.Background(), "bob@example.com", "correct-horse")
	require.NoError(t, err)

	u, err := auth.Login(context.Background(), "bob@example.com", "battery-staple")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, u)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth, _ := setup(t)
	u, err := auth.Login(context.Background(), "ghost@example.com", "correct-horse")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
	assert.Nil(t, u)
}

func TestLogin_RepositoryError(t *testing.T) {
	uow := mocks.NewMockUnitOfWork(t)
	repo := mocks.NewMockUserRepository(t)
	uow.RunInline().Once()
	uow.On("UserRepository").Return(repo, nil).Once()
	boom := errors.New("db down")
	repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, boom).Once()

	auth := authsvc.NewWithJWT(uow, jwtCfg, slog.Default())
	_, err := auth.Login(context.Background(), "bob@example.com", "correct-horse")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	auth, users := setup(t)
	u, err := users.Signup(context.Background(), "carol@example.com", "correct-horse")
	require.NoError(t, err)

	signed, err := auth.GenerateToken(context.Background(), u)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte(jwtCfg.Secret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "carol@example.com", claims["email"])
	assert.Equal(t, u.ID.String(), claims["user_id"])

	id, err := auth.GetCurrentUserId(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestGetCurrentUserId_BadClaims(t *testing.T) {
	auth, _ := setup(t)

	_, err := auth.GetCurrentUserId(nil)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42})
	_, err = auth.GetCurrentUserId(token)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	token = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "not-a-uuid"})
	_, err = auth.GetCurrentUserId(token)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	id := uuid.New()
	token = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": id.String()})
	got, err := auth.GetCurrentUserId(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
