package service

import (
	"context"
	"testing"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func conPassword(t *testing.T, e *env, rol, email, password string) string {
	t.Helper()
	u := e.st.addUsuario(rol, email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u.PasswordHash = string(hash)
	return u.Username
}

func TestLoginEmiteTokensFirmados(t *testing.T) {
	e := newEnv()
	username := conPassword(t, e, "cajero", "cajero@ferreteria.pe", "clave-segura")

	resp, err := e.auth.Login(context.Background(), dto.LoginRequest{
		Username: username,
		Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.Equal(t, username, resp.Usuario.Username)
	assert.Equal(t, "cajero", resp.Usuario.Rol)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(e.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.Usuario.ID, claims["user_id"])
	assert.Equal(t, "cajero", claims["rol"])
}

func TestLoginConPasswordIncorrecto(t *testing.T) {
	e := newEnv()
	username := conPassword(t, e, "cajero", "cajero@ferreteria.pe", "clave-segura")

	_, err := e.auth.Login(context.Background(), dto.LoginRequest{
		Username: username,
		Password: "otra-clave",
	})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestLoginUsuarioInexistente(t *testing.T) {
	e := newEnv()

	_, err := e.auth.Login(context.Background(), dto.LoginRequest{
		Username: "nadie@ferreteria.pe",
		Password: "clave",
	})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestRefreshRenuevaLaSesion(t *testing.T) {
	e := newEnv()
	username := conPassword(t, e, "cajero", "cajero@ferreteria.pe", "clave-segura")

	resp, err := e.auth.Login(context.Background(), dto.LoginRequest{
		Username: username,
		Password: "clave-segura",
	})
	require.NoError(t, err)

	renovado, err := e.auth.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Usuario.ID, renovado.Usuario.ID)
	assert.NotEmpty(t, renovado.AccessToken)
}

func TestRefreshRechazaTokenAjeno(t *testing.T) {
	e := newEnv()

	_, err := e.auth.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)

	// Un token firmado con otro secreto tampoco pasa.
	otro := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "x"})
	firmado, err := otro.SignedString([]byte("otro-secreto"))
	require.NoError(t, err)
	_, err = e.auth.Refresh(context.Background(), firmado)
	assert.Error(t, err)
}

func TestValidarSupervisorAceptaRolesConAutoridad(t *testing.T) {
	e := newEnv()
	conPassword(t, e, "supervisor", "super@ferreteria.pe", "clave-super")

	resp, err := e.auth.ValidarSupervisor(context.Background(), dto.ValidarSupervisorRequest{
		Email:    "super@ferreteria.pe",
		Password: "clave-super",
	})
	require.NoError(t, err)
	assert.True(t, resp.Valido)
	require.NotNil(t, resp.Rol)
	assert.Equal(t, "supervisor", *resp.Rol)
}

func TestValidarSupervisorRechazaCajero(t *testing.T) {
	e := newEnv()
	conPassword(t, e, "cajero", "cajero@ferreteria.pe", "clave")

	_, err := e.auth.ValidarSupervisor(context.Background(), dto.ValidarSupervisorRequest{
		Email:    "cajero@ferreteria.pe",
		Password: "clave",
	})
	assert.ErrorIs(t, err, cajaerr.ErrSupervisorInvalido)
}

func TestValidarSupervisorRechazaPasswordIncorrecto(t *testing.T) {
	e := newEnv()
	conPassword(t, e, "supervisor", "super@ferreteria.pe", "clave-super")

	_, err := e.auth.ValidarSupervisor(context.Background(), dto.ValidarSupervisorRequest{
		Email:    "super@ferreteria.pe",
		Password: "clave-mal",
	})
	assert.ErrorIs(t, err, cajaerr.ErrSupervisorInvalido)
}
