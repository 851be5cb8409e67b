package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/nickchat/internal/api/apierr"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errMalformed     = errors.New("malformed authorization header")
)

// ParseBearer extracts the token from an Authorization header value. The
// value must be exactly "<scheme> <token>" separated by one space, with the
// scheme equal to "bearer" in any case.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errMalformed
	}
	return parts[1], nil
}

// tokenMatches compares fixed-size digests so the comparison time depends
// on neither the secret's content nor its length
func tokenMatches(token string, secretDigest [blake2b.Size256]byte) bool {
	got := blake2b.Sum256([]byte(token))
	return subtle.ConstantTimeCompare(got[:], secretDigest[:]) == 1
}

// isPublic reports whether the request skips authentication
func isPublic(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/"
}

// Auth creates middleware requiring "Authorization: Bearer <secret>" on
// every request except GET /. It wraps the whole router so unknown paths
// are rejected before routing.
func Auth(secret string) func(http.Handler) http.Handler {
	digest := blake2b.Sum256([]byte(secret))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := ParseBearer(r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, errMissingHeader):
				apierr.WriteError(w, apierr.NewMissingAuthError())
				return
			case err != nil:
				apierr.WriteError(w, apierr.NewInvalidAPIKeyError())
				return
			}

			if !tokenMatches(token, digest) {
				apierr.WriteError(w, apierr.NewInvalidAPIKeyError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
