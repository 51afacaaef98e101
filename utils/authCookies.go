package utils

import (
	"github.com/gin-gonic/gin"
)

// Cookie names shared with the token middleware and the refresh handler.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies writes both session cookies. They are HTTP-only, and
// secure outside debug mode so local clients without TLS still work.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(AccessTokenCookie, accessToken, int(AccessTokenExpiry.Seconds()), "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, int(RefreshTokenExpiry.Seconds()), "/", "", secure, true)
}

// ClearAuthCookies expires both session cookies, ending the session on
// logoff.
func ClearAuthCookies(c *gin.Context) {
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
