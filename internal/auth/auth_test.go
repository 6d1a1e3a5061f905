package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testConfig() Config {
	return Config{Secret: testSecret, Issuer: "portal.identity"}
}

func TestParseValidToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"sub":    "researcher-1",
		"iss":    "portal.identity",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{"records:read", "records:write"},
	})

	claims, err := Parse(signed, testConfig())
	require.NoError(t, err)
	require.Equal(t, "researcher-1", claims.Subject)
	require.True(t, claims.HasScope(ScopeRecordsRead))
	require.True(t, claims.HasScope(ScopeRecordsWrite))
	require.False(t, claims.HasScope(ScopeAnalyticsRead))
}

func TestParseSpaceSeparatedScopes(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"sub":    "researcher-1",
		"iss":    "portal.identity",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": "records:read analytics:read",
	})

	claims, err := Parse(signed, testConfig())
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopeRecordsRead))
	require.True(t, claims.HasScope(ScopeAnalyticsRead))
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"sub": "researcher-1",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Parse(signed, testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"iss": "portal.identity",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Parse(signed, testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"sub": "researcher-1",
		"iss": "portal.identity",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := Parse(signed, testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{
		"sub": "researcher-1",
		"iss": "portal.identity",
	})

	_, err := Parse(signed, testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "researcher-1",
		"iss": "portal.identity",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = Parse(signed, testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseEmptyToken(t *testing.T) {
	_, err := Parse("   ", testConfig())
	require.ErrorIs(t, err, ErrMissingToken)
}
