package service

import (
	"context"
	"testing"
	"time"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/middleware"
	"github.com/warklp/saasBarber-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

// FindByEmail mirrors the real query: inactive accounts read as missing.
func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active || includeInactive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

func newAuthFixture(t *testing.T) (*stubUserRepo, AuthService, *model.User) {
	t.Helper()
	repo := newStubUserRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           uuid.New(),
		Name:         "Cashier One",
		Email:        "cashier@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleCashier,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	svc := NewAuthService(repo, testSecret, 15*time.Minute, 24*time.Hour)
	return repo, svc, user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	_, svc, user := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cashier@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID.String(), resp.User.ID)

	claims, err := middleware.ParseToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleCashier, claims.Role)

	claims, err = middleware.ParseToken(resp.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cashier@example.com", Password: "wrong-password",
	})
	requireAPIError(t, err, apierror.CodeForbidden)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "ghost@example.com", Password: "secret123",
	})
	requireAPIError(t, err, apierror.CodeForbidden)
}

func TestRefreshRotatesTokens(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cashier@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cashier@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	requireAPIError(t, err, apierror.CodeForbidden)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	repo, svc, user := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cashier@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), user.ID))
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	requireAPIError(t, err, apierror.CodeForbidden)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Clone", Email: "cashier@example.com", Password: "secret123", Role: model.RoleBarber,
	})
	requireAPIError(t, err, apierror.CodeConflict)
}

func TestDeactivateUnknownUser(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	err := svc.DeactivateUser(context.Background(), uuid.New())
	requireAPIError(t, err, apierror.CodeNotFound)
}
