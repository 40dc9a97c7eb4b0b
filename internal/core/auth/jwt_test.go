package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "credlocker", TTL: time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	j := testJWTer()

	tok, err := j.Issue(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UID)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "credlocker", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()
	j := testJWTer()
	tok, err := j.Issue(1, "user")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other-secret"), Issuer: "credlocker", TTL: time.Hour}
	_, err = other.Parse(tok)
	require.Error(t, err)
}

func TestParse_WrongIssuer(t *testing.T) {
	t.Parallel()
	j := testJWTer()
	tok, err := j.Issue(1, "user")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	_, err = other.Parse(tok)
	require.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	_, err := testJWTer().Parse("not.a.jwt")
	require.Error(t, err)
}
