package service

import (
	"testing"

	"civicdesk/config"
	"civicdesk/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	svc := NewAuthService(users, config.JWTConfig{
		Secret:          "test-secret",
		ExpirationHours: 24,
	})
	return svc, users
}

func TestRegister(t *testing.T) {
	svc, users := newTestAuthService()

	user, err := svc.Register(&model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana",
		Role:     model.RoleCitizen,
	})

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, model.RoleCitizen, user.Role)
	assert.Nil(t, user.Department, "citizens carry no department")
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password is stored hashed")

	stored, err := users.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterAuthorityKeepsDepartment(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(&model.RegisterRequest{
		Email:      "works@example.com",
		Password:   "hunter22",
		Name:       "Public Works",
		Role:       model.RoleAuthority,
		Department: "roads",
	})

	require.NoError(t, err)
	require.NotNil(t, user.Department)
	assert.Equal(t, "roads", *user.Department)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	req := &model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana",
		Role:     model.RoleCitizen,
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(&model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana",
		Role:     model.Role("admin"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()

	registered, err := svc.Register(&model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana",
		Role:     model.RoleCitizen,
	})
	require.NoError(t, err)

	resp, err := svc.Login(&model.LoginRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, registered.ID.String(), claims["user_id"])
	assert.Equal(t, "citizen", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(&model.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
		Name:     "Ana",
		Role:     model.RoleCitizen,
	})
	require.NoError(t, err)

	_, err = svc.Login(&model.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Login(&model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
