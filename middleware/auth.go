package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the user's display name inside Gin context.
	ContextUsernameKey = "name"
	// ContextTokenKey stores the raw bearer token so logout can revoke it.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired(guard *services.Guard) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := bearerToken(ctx.GetHeader("Authorization"))
		if err == nil {
			var identity services.Identity
			identity, err = guard.Authenticate(ctx.Request.Context(), token)
			if err == nil {
				ctx.Set(ContextUserIDKey, identity.UserID)
				ctx.Set(ContextUsernameKey, identity.Name)
				ctx.Set(ContextTokenKey, token)
				ctx.Next()
				return
			}
		}
		utils.Fail(ctx, err)
		ctx.Abort()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", utils.Unauthorized("Unauthorized. No token.")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", utils.Unauthorized("Unauthorized. Invalid authorization header.")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", utils.Unauthorized("Unauthorized. No token.")
	}
	return token, nil
}

// Identity returns the caller stored by AuthRequired.
func Identity(ctx *gin.Context) (services.Identity, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return services.Identity{}, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return services.Identity{}, false
	}
	return services.Identity{UserID: id, Name: ctx.GetString(ContextUsernameKey)}, true
}
