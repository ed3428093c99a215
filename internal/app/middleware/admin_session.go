package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/error/response"
)

// SessionCookieName 管理员会话 cookie 名称
const SessionCookieName = "admin_session"

// sessionContextKey 校验通过后会话在 gin.Context 中的键
const sessionContextKey = "adminSession"

// SetSessionCookie 写入会话 cookie
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(services.SessionLifetime.Seconds()), "/", "", false, true)
}

// ClearSessionCookie 清除会话 cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// CurrentSession 读取并校验请求中的会话；会话过期时顺带清除 cookie
func CurrentSession(c *gin.Context, sessionService services.InterfaceSessionService) (*services.AdminSession, error) {
	token, _ := c.Cookie(SessionCookieName)
	session, err := sessionService.Validate(token)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			ClearSessionCookie(c)
		}
		return nil, err
	}
	return session, nil
}

// RequireAdmin 校验管理员会话，未登录或已过期返回 401
func RequireAdmin(sessionService services.InterfaceSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := CurrentSession(c, sessionService)
		if err != nil {
			response.Unauthorized(c)
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}
