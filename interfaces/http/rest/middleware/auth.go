package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/pkg/auth"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// Authenticate rejects requests without a valid bearer token and stores the
// caller's claims in the request context.
func Authenticate(validator *auth.Validator, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing authorization header"))
				return
			}

			claims, err := validator.ValidateToken(authHeader)
			if err != nil {
				logger.Debug("Token rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				errHandler.Handle(w, r, unauthorized(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(err error) *pkgerrors.AppError {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return pkgerrors.NewUnauthorizedError("Token has expired").WithCode("TOKEN_EXPIRED")
	case errors.Is(err, auth.ErrMissingToken):
		return pkgerrors.NewUnauthorizedError("Missing authorization header")
	default:
		return pkgerrors.NewUnauthorizedError("Invalid token").WithCode("INVALID_TOKEN")
	}
}
