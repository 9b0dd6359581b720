package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/logging"
	"productivity-app/backend/kanban-service/models"
	"productivity-app/backend/kanban-service/utils"
)

type contextKey string

const userContextKey contextKey = "authUser"

// JWTAuthMiddleware validates the Bearer token and injects the caller
// identity into the request context. Every kanban route sits behind it;
// an absent or invalid token is a uniform 401 before the core is entered.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_MALFORMED_CLAIMS, Description: Malformed user id in token for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user := models.AuthUser{ID: userID, Email: claims.Email}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the identity stored by JWTAuthMiddleware.
func UserFromContext(ctx context.Context) (models.AuthUser, bool) {
	user, ok := ctx.Value(userContextKey).(models.AuthUser)
	return user, ok
}
