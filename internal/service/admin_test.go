package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/utils"
)

const testSecret = "test-secret"

func newAdminFixture(t *testing.T) (*AdminService, *mockAdmins, *model.Admin) {
	t.Helper()
	hash, err := utils.HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	admin := &model.Admin{ID: 1, Username: "admin", PasswordHash: hash, Email: "admin@sistema.com"}
	store := &mockAdmins{}
	t.Cleanup(func() { store.AssertExpectations(t) })
	svc := NewAdminService(store, zap.NewNop(), AdminConfig{JWTSecret: testSecret, TokenTTLMin: 60, BcryptCost: bcrypt.MinCost})
	return svc, store, admin
}

func TestAdminLogin(t *testing.T) {
	svc, store, admin := newAdminFixture(t)
	ctx := context.Background()
	store.On("GetByUsername", mock.Anything, "admin").Return(admin, nil).Twice()
	store.On("GetByUsername", mock.Anything, "ghost").Return(nil, model.ErrNotFound).Once()

	res, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Username)
	assert.NotEmpty(t, res.Token)

	id, err := svc.Authorize(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "admin123")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAdminAuthorize_RejectsBadTokens(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.Authorize("")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = svc.Authorize("garbage")
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	other, err := utils.NewAccessToken("another-secret", 1, "admin", 60)
	require.NoError(t, err)
	_, err = svc.Authorize(other.Token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	expired, err := utils.NewAccessToken(testSecret, 1, "admin", -5)
	require.NoError(t, err)
	_, err = svc.Authorize(expired.Token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestAdminProfile(t *testing.T) {
	svc, store, admin := newAdminFixture(t)
	ctx := context.Background()
	store.On("GetByID", mock.Anything, int64(1)).Return(admin, nil).Once()

	p, err := svc.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{ID: 1, Username: "admin", Email: "admin@sistema.com"}, p)

	store.On("UpdateProfile", mock.Anything, int64(1), "root", "root@sistema.com").Return(nil).Once()
	p, err = svc.UpdateProfile(ctx, 1, " root ", "root@sistema.com")
	require.NoError(t, err)
	assert.Equal(t, "root", p.Username)

	store.On("UpdateProfile", mock.Anything, int64(1), "taken", "taken@sistema.com").Return(model.ErrConflict).Once()
	_, err = svc.UpdateProfile(ctx, 1, "taken", "taken@sistema.com")
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = svc.UpdateProfile(ctx, 1, "root", "nope")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAdminChangePassword(t *testing.T) {
	svc, store, admin := newAdminFixture(t)
	ctx := context.Background()
	store.On("GetByID", mock.Anything, int64(1)).Return(admin, nil)

	err := svc.ChangePassword(ctx, 1, "wrong", "newpass123")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, 1, "admin123", "abc")
	assert.ErrorIs(t, err, model.ErrValidation)

	store.On("UpdatePassword", mock.Anything, int64(1), mock.MatchedBy(func(hash string) bool {
		return utils.VerifyPassword(hash, "newpass123")
	})).Return(nil).Once()
	require.NoError(t, svc.ChangePassword(ctx, 1, "admin123", "newpass123"))
}

func TestAdminSetPassword(t *testing.T) {
	svc, store, admin := newAdminFixture(t)
	ctx := context.Background()
	store.On("GetByUsername", mock.Anything, "admin").Return(admin, nil).Once()
	store.On("UpdatePassword", mock.Anything, int64(1), mock.AnythingOfType("string")).Return(nil).Once()

	require.NoError(t, svc.SetPassword(ctx, "admin", "s3cret-pass"))

	store.On("GetByUsername", mock.Anything, "ghost").Return(nil, model.ErrNotFound).Once()
	assert.ErrorIs(t, svc.SetPassword(ctx, "ghost", "s3cret-pass"), model.ErrNotFound)
}
