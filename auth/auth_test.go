package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func writeCredentials(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeCredentials(t, `{"username": "editor", "password": "s3cret"}`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	require.Equal(t, "editor", creds.Username)
	require.True(t, creds.Match("editor", "s3cret"))
	require.False(t, creds.Match("editor", "wrong"))
	require.False(t, creds.Match("other", "s3cret"))
	require.False(t, creds.Match("", ""))
}

func TestLoadCredentialsErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, ErrNoCredentials},
		{"empty password", func(t *testing.T) string { return writeCredentials(t, `{"username": "a"}`) }, ErrNoCredentials},
		{"invalid json", func(t *testing.T) string { return writeCredentials(t, `{nope`) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(tt.path(t))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret-key-32-chars-minimum", time.Hour)

	token, err := m.Issue("editor")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "editor", claims.Subject)
	require.Equal(t, RoleAdmin, claims.Role)
	require.True(t, claims.IsAdmin())
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, err := m.Issue("editor")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).Issue("editor")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "editor",
			Issuer:    "newsdesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsIsAdmin(t *testing.T) {
	var nilClaims *Claims
	require.False(t, nilClaims.IsAdmin())
	require.False(t, (&Claims{Role: "viewer", RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}).IsAdmin())
	require.False(t, (&Claims{Role: RoleAdmin}).IsAdmin())
	require.True(t, (&Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}).IsAdmin())
}

func TestContextAccessorsFailClosed(t *testing.T) {
	ctx := context.Background()
	_, ok := FromContext(ctx)
	require.False(t, ok)

	_, ok = FromContext(NewContext(ctx, nil))
	require.False(t, ok)

	viewer := &Claims{Role: "viewer", RegisteredClaims: jwt.RegisteredClaims{Subject: "v"}}
	_, ok = FromContext(NewContext(ctx, viewer))
	require.True(t, ok)
	_, ok = AdminFromContext(NewContext(ctx, viewer))
	require.False(t, ok)

	admin := &Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "a"}}
	got, ok := AdminFromContext(NewContext(ctx, admin))
	require.True(t, ok)
	require.Same(t, admin, got)
}
