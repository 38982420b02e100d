package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DianaKab/hw05-final-new/utils"
)

const (
	// SessionCookieName carries the signed viewer token.
	SessionCookieName = "session"
	// ContextUserIDKey is the key used to store the viewer's user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the viewer's username inside Gin context.
	ContextUsernameKey = "username"
	// LoginPath is the external login entry point anonymous viewers are sent to.
	LoginPath = "/auth/login/"
)

// CurrentViewer resolves the session cookie into a viewer identity. A
// missing or invalid cookie leaves the request anonymous; it never aborts.
func CurrentViewer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(SessionCookieName)
		if err != nil || token == "" {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous viewers to the login entry point with a
// return-to path. It never answers 401; the login flow owns that surface.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := ViewerID(ctx); !ok {
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+ctx.Request.URL.Path)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// ViewerID returns the authenticated viewer's user ID, if any.
func ViewerID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// ViewerUsername returns the authenticated viewer's username, if any.
func ViewerUsername(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(ContextUsernameKey)
	if !exists {
		return "", false
	}
	name, ok := value.(string)
	return name, ok && name != ""
}
