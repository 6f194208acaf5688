// Package identity resolves the calling user for API requests. Session handling lives in
// front of this service; it forwards the authenticated address in the X-User-Email header.
package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
	"gorm.io/gorm"
)

const (
	ContextKey = "userID"
	HeaderName = "X-User-Email"
)

// Middleware finds or creates the user named by the header and stores its id in the context.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderName)))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + HeaderName + " header"})
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).
			Where(models.User{Email: email}).
			FirstOrCreate(&user).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user: " + err.Error()})
			return
		}

		c.Set(ContextKey, user.ID)
		c.Next()
	}
}

// UserID returns the resolved caller, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
