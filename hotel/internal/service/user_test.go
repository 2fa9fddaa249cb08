package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	mock_repository "github.com/Astemirdum/hotel-service/hotel/internal/repository/mocks"
	"github.com/Astemirdum/hotel-service/hotel/internal/service"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeDenylist struct {
	revoked map[string]time.Time
}

func (d *fakeDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.revoked[tokenID] = until
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, nil
}

func newUserService(t *testing.T) (*service.UserService, *mock_repository.MockUserRepository, *auth.TokenManager, *fakeDenylist) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_repository.NewMockUserRepository(ctrl)
	tokens := auth.NewTokenManager(auth.Config{Secret: "test-secret", TTL: time.Hour})
	denylist := &fakeDenylist{revoked: map[string]time.Time{}}
	return service.NewUserService(repo, tokens, denylist, zap.NewExample()), repo, tokens, denylist
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("always guest", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u model.User) (model.User, error) {
				require.Equal(t, auth.RoleGuest, u.Role)
				require.Equal(t, "ana@hotel.test", u.Email)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))
				u.ID = 12
				return u, nil
			})
		u, err := svc.Register(ctx, model.RegisterRequest{
			Email: " Ana@Hotel.test ", Phone: "+34 600", Name: "Ana", Password: "secret",
		})
		require.NoError(t, err)
		require.Equal(t, int64(12), u.ID)
	})
	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(model.User{}, errs.Conflict("user already exists"))
		_, err := svc.Register(ctx, model.RegisterRequest{
			Email: "ana@hotel.test", Phone: "1", Name: "Ana", Password: "secret",
		})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	stored := model.User{
		ID:           12,
		Email:        "ana@hotel.test",
		Name:         "Ana",
		PasswordHash: mustHash(t, "secret"),
		Role:         auth.RoleFrontDesk,
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, tokens, _ := newUserService(t)
		repo.EXPECT().GetUserByEmail(ctx, "ana@hotel.test").Return(stored, nil)

		resp, err := svc.Login(ctx, model.LoginRequest{Email: "ANA@hotel.test", Password: "secret"})
		require.NoError(t, err)
		require.InDelta(t, time.Hour.Seconds(), float64(resp.ExpiresIn), 5)
		require.Equal(t, stored.ID, resp.User.ID)

		claims, err := tokens.Parse(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, stored.Profile(), claims.Profile)
	})
	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().GetUserByEmail(ctx, "ana@hotel.test").Return(stored, nil)
		_, err := svc.Login(ctx, model.LoginRequest{Email: "ana@hotel.test", Password: "nope"})
		require.ErrorIs(t, err, errs.ErrUnauthenticated)
	})
	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().GetUserByEmail(ctx, "who@hotel.test").Return(model.User{}, errs.NotFound("user not found"))
		_, err := svc.Login(ctx, model.LoginRequest{Email: "who@hotel.test", Password: "secret"})
		require.ErrorIs(t, err, errs.ErrUnauthenticated)
	})
}

func TestUserService_Logout(t *testing.T) {
	t.Parallel()
	svc, _, tokens, denylist := newUserService(t)
	token, expiresAt, err := tokens.Issue(auth.Profile{ID: 3, Role: auth.RoleGuest})
	require.NoError(t, err)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	require.WithinDuration(t, expiresAt, denylist.revoked[claims.ID], time.Second)
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _, _ := newUserService(t)
	current := model.User{ID: 4, Email: "old@hotel.test", Name: "Old", PasswordHash: "keep", Role: auth.RoleGuest}

	_, err := svc.Update(ctx, 4, model.UpdateUserRequest{Email: "x@hotel.test", Name: "X", Phone: "1", Role: "owner"})
	require.ErrorIs(t, err, errs.ErrValidation)

	gomock.InOrder(
		repo.EXPECT().GetUser(ctx, int64(4)).Return(current, nil),
		repo.EXPECT().UpdateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u model.User) (model.User, error) {
				require.Equal(t, auth.RoleFrontDesk, u.Role)
				require.Equal(t, "keep", u.PasswordHash)
				return u, nil
			}),
	)
	u, err := svc.Update(ctx, 4, model.UpdateUserRequest{
		Email: "desk@hotel.test", Phone: "2", Name: "Desk", Role: auth.RoleFrontDesk,
	})
	require.NoError(t, err)
	require.Equal(t, "desk@hotel.test", u.Email)
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _, _ := newUserService(t)

	require.ErrorIs(t, svc.Delete(ctx, admin, admin.ID), errs.ErrForbidden)

	repo.EXPECT().DeleteUser(ctx, int64(10)).Return(errs.Conflict("user is referenced by existing reservations"))
	require.ErrorIs(t, svc.Delete(ctx, admin, 10), errs.ErrConflict)

	repo.EXPECT().DeleteUser(ctx, int64(11)).Return(nil)
	require.NoError(t, svc.Delete(ctx, admin, 11))
}

func TestUserService_SeedAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates first admin", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().ExistsAdmin(ctx).Return(false, nil)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u model.User) (model.User, error) {
				require.Equal(t, auth.RoleAdmin, u.Role)
				require.Equal(t, "admin@hotel.test", u.Email)
				u.ID = 1
				return u, nil
			})
		require.NoError(t, svc.SeedAdmin(ctx, "admin@hotel.test", "admin"))
	})
	t.Run("admin exists", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newUserService(t)
		repo.EXPECT().ExistsAdmin(ctx).Return(true, nil)
		require.NoError(t, svc.SeedAdmin(ctx, "admin@hotel.test", "admin"))
	})
	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newUserService(t)
		require.NoError(t, svc.SeedAdmin(ctx, "", ""))
	})
}
