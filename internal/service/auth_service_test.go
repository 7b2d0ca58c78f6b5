package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/caffeinepub/total-amount-calculator-app/internal/config"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
)

func authFixture(t *testing.T, kv localstore.KV) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
		BranchCredentials:  "Downtown:" + string(hash),
	}
	return NewAuthService(cfg, kv, localstore.NewMigrationGate(kv))
}

func TestLoginIssuesBranchToken(t *testing.T) {
	kv := localstore.NewMemKV()
	svc := authFixture(t, kv)

	resp, err := svc.Login(context.Background(), "Downtown", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Downtown", resp.Branch)
	assert.Equal(t, "bearer", resp.TokenType)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "Downtown", claims["branch"])

	assert.Equal(t, "Downtown", svc.ActiveBranch())
}

func TestLoginNormalizesUsername(t *testing.T) {
	svc := authFixture(t, localstore.NewMemKV())

	resp, err := svc.Login(context.Background(), "  dOwNtOwN  ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Downtown", resp.Branch, "canonical branch name regardless of input casing")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := authFixture(t, localstore.NewMemKV())

	_, err := svc.Login(context.Background(), "Downtown", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRunsLegacyMigration(t *testing.T) {
	kv := localstore.NewMemKV()
	require.NoError(t, kv.Set("varshini_saved_bills", `[{"id":"old"}]`))
	svc := authFixture(t, kv)

	_, err := svc.Login(context.Background(), "Downtown", "secret123")
	require.NoError(t, err)

	got, ok := kv.Get("branch_Downtown_saved_bills")
	require.True(t, ok, "legacy data copied into the branch namespace on login")
	assert.Equal(t, `[{"id":"old"}]`, got)
}

func TestLoginSucceedsDespiteMigrationFailure(t *testing.T) {
	kv := localstore.NewMemKV()
	require.NoError(t, kv.Set("varshini_saved_bills", `[{"id":"old"}]`))
	svc := authFixture(t, kv)
	kv.FailWrites = errors.New("disk full")

	resp, err := svc.Login(context.Background(), "Downtown", "secret123")
	require.NoError(t, err, "migration trouble must not lock the user out")
	assert.NotEmpty(t, resp.AccessToken)

	// Marker unset: the copy is retried on the next login.
	kv.FailWrites = nil
	_, err = svc.Login(context.Background(), "Downtown", "secret123")
	require.NoError(t, err)
	_, ok := kv.Get("branch_Downtown_saved_bills")
	assert.True(t, ok)
}

func TestLogoutClearsPointerOnly(t *testing.T) {
	kv := localstore.NewMemKV()
	svc := authFixture(t, kv)

	_, err := svc.Login(context.Background(), "Downtown", "secret123")
	require.NoError(t, err)
	require.NoError(t, kv.Set("branch_Downtown_saved_bills", `[{"id":"b1"}]`))

	require.NoError(t, svc.Logout(context.Background()))

	assert.Empty(t, svc.ActiveBranch())
	got, ok := kv.Get("branch_Downtown_saved_bills")
	require.True(t, ok, "logout never touches branch-scoped data")
	assert.Equal(t, `[{"id":"b1"}]`, got)
}
