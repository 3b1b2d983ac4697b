package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/auth"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/sedes-inventario/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Warehouses.Create(context.Background(), &entity.Warehouse{ID: "norte", Name: "Norte", NameKey: "norte", Kind: entity.WarehouseKindSecondary, Active: true}))
	return auth.NewAuthUseCase(repos.Users, repos.Warehouses, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "sedes"})
}

func TestRegisterYLogin_TokenLlevaSedeYRol(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Sedes.test", Password: "clave-segura", Role: entity.RoleAlmacen, WarehouseID: "norte"})
	require.NoError(t, err)
	assert.Equal(t, "ana@sedes.test", user.Email)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@sedes.test", Password: "clave-segura"})
	require.NoError(t, err)
	userID, warehouseID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "norte", warehouseID)
	assert.Equal(t, entity.RoleAlmacen, role)
}

func TestRegister_Errores(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@sedes.test", Password: "clave-segura", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@sedes.test", Password: "clave-segura", Role: entity.RoleAdmin})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "b@sedes.test", Password: "clave-segura"})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "solicitante sin sede")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@sedes.test", Password: "clave-segura", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@sedes.test", Password: "otra-clave"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@sedes.test", Password: "x"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
