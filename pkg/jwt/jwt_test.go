package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/jwt"
)

const (
	secret   = "test-secret-key-for-unit-tests"
	userID   = "00000000-0000-0000-0000-000000000001"
	branchID = "00000000-0000-0000-0000-000000000002"
	issuer   = "kardex-api-test"
)

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, branchID, "trabajador", issuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotUser, gotBranch, gotRole, err := jwt.Parse(secret, tok)
	require.NoError(t, err)

	assert.Equal(t, userID, gotUser)
	assert.Equal(t, branchID, gotBranch)
	assert.Equal(t, "trabajador", gotRole)
}

func TestJWT_SecretVacio_RetornaError(t *testing.T) {
	_, err := jwt.Generate("", userID, branchID, "admin", issuer, 60)
	assert.Error(t, err, "no se debe firmar con secret vacío")

	_, _, _, err = jwt.Parse("", "cualquier.token.aqui")
	assert.Error(t, err)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Expiración -1 minuto: el token nace expirado.
	tok, err := jwt.Generate(secret, userID, branchID, "admin", issuer, -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, branchID, "admin", issuer, 60)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
