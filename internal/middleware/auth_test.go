package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/loftplanner/pkg/httpcontext"
)

const testSecret = "pigeon-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func run(authHeader string, spoofedUser string, issuer string) (*fasthttp.RequestCtx, string, bool) {
	var seenUser string
	called := false
	handler := JWTAuth(testSecret, issuer, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		seenUser = string(ctx.Request.Header.Peek(httpcontext.HeaderUserID))
	})

	ctx := &fasthttp.RequestCtx{}
	if authHeader != "" {
		ctx.Request.Header.Set("Authorization", authHeader)
	}
	if spoofedUser != "" {
		ctx.Request.Header.Set(httpcontext.HeaderUserID, spoofedUser)
	}
	handler(ctx)
	return ctx, seenUser, called
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, user, called := run("Bearer "+token, "", "")
	assert.True(t, called)
	assert.Equal(t, "u-1", user)
}

func TestJWTAuth_SubjectFallback(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "u-2"})

	_, user, called := run(token, "", "")
	assert.True(t, called)
	assert.Equal(t, "u-2", user)
}

func TestJWTAuth_OverridesSpoofedHeader(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1"})

	_, user, _ := run("Bearer "+token, "admin", "")
	assert.Equal(t, "u-1", user)
}

func TestJWTAuth_Rejects(t *testing.T) {
	expired := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	cases := map[string]string{
		"missing header": "",
		"garbage":        "Bearer not-a-token",
		"wrong secret":   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u-1"}),
		"expired":        "Bearer " + expired,
		"no user":        "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "x"}),
		"alg none":       "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"user_id": "u-1"}),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			ctx, user, called := run(header, "spoofed", "")
			assert.False(t, called)
			assert.Empty(t, user)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
			assert.Contains(t, string(ctx.Response.Body()), `"code":"UNAUTHORIZED"`)
		})
	}
}

func TestJWTAuth_Issuer(t *testing.T) {
	good := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1", "iss": "loftplanner"})
	bad := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "u-1", "iss": "elsewhere"})

	_, _, called := run("Bearer "+good, "", "loftplanner")
	assert.True(t, called)

	ctx, _, called := run("Bearer "+bad, "", "loftplanner")
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
