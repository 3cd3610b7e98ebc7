package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/models"
)

const (
	userKey   = "user"
	userIDKey = "user_id"

	LoginPath = "/auth/login/"
)

// Identifier turns a raw token into the user it was issued to.
type Identifier interface {
	Identify(ctx context.Context, raw string) (*models.User, error)
}

// Identify attaches the requesting user, if any, to the context. A missing or
// bad token leaves the request anonymous; it never fails the request.
func Identify(id Identifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFrom(c)
		if raw == "" {
			c.Next()
			return
		}
		user, err := id.Identify(c.Request.Context(), raw)
		if err == nil {
			c.Set(userKey, user)
			c.Set(userIDKey, user.ID)
		}
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the identified user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// LoginRequired sends anonymous visitors to the login page with a next
// parameter pointing back at the requested path and query.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginPath+"?next="+nextParam(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// nextParam query-escapes uri but leaves slashes readable.
func nextParam(uri string) string {
	return strings.ReplaceAll(url.QueryEscape(uri), "%2F", "/")
}

// AdminRequired answers 401 for anonymous callers and 403 for non-admins.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
