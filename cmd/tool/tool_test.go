package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/middleware"
)

func TestToken_IssuesAdminJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "linkanalyzer")

	cmd := Token()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--uid", "ops-1", "--ttl", "5m"})
	require.NoError(t, cmd.Execute())

	raw := strings.TrimSpace(out.String())
	claims := &middleware.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleAdmin, claims.Role)
	assert.Equal(t, "linkanalyzer", claims.Issuer)
}

func TestToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cmd := Token()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "JWT_SECRET")
}

func TestDestructiveCommandsNeedConfirmation(t *testing.T) {
	for _, cmd := range []func() *cobra.Command{Drop, Purge} {
		c := cmd()
		c.SetArgs([]string{})
		c.SetOut(&bytes.Buffer{})
		c.SetErr(&bytes.Buffer{})
		assert.ErrorIs(t, c.Execute(), errNotConfirmed, c.Name())
	}
}
