package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

const secret = "test-secret"

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	return auth.NewAuthUseCase(memory.NewUserRepository(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
}

func TestLogin_Exitoso(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	u, err := uc.RegisterUser(ctx, auth.RegisterInput{Email: "admin@example.com", Password: "s3creta", Role: "admin"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ADMIN@example.com", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)

	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "admin", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.RegisterUser(ctx, auth.RegisterInput{Email: "op@example.com", Password: "s3creta", Role: "operador"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "op@example.com", Password: "otra"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "s3creta"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegisterUser_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	u, err := uc.RegisterUser(ctx, auth.RegisterInput{Email: "l@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "leitor", u.Role)

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{Email: "L@example.com", Password: "x"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{Email: "r@example.com", Password: "x", Role: "bodeguero"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
