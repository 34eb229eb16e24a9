package middleware

import (
	"context"
	"net/http"
	"strings"

	goSession "github.com/MrEthical07/goSession"
)

// AccessTokenCookie is the cookie consulted when no Authorization header is
// present. It matches the name the boundary layer writes on login.
const AccessTokenCookie = "access_token"

type authResultContextKey struct{}

func AuthResultFromContext(ctx context.Context) (*goSession.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*goSession.AuthResult)
	return res, ok
}

func Guard(engine *goSession.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := requestToken(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Validate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestToken(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}

	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
