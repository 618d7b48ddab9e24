package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
)

const userKey = "auth_user"

// LoginPath is where the gate sends visitors without a session
const LoginPath = "/auth/facebook/login"

// CurrentUser returns the user the gate stored on c
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

// Identify stores the session user, if any, without requiring one
func Identify(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider != nil {
			if user, ok := provider.Session(c.Request); ok {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

// Gate requires a session. A nil provider disables the gate.
// Page requests are redirected to the login page; API requests get 401.
func Gate(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider == nil {
			c.Next()
			return
		}

		user, ok := provider.Session(c.Request)
		if !ok {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				common.ErrorResponse(c, http.StatusUnauthorized, i18n.T("posting.login"))
				c.Abort()
				return
			}
			next := c.Request.URL.Path
			if c.Request.Method != http.MethodGet {
				next = "/post"
			}
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(next))
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}
