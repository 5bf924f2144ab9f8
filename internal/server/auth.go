package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateCookie       = "figma_oauth_state"
	stateCookieMaxAge = 10 * 60
	authPath          = "/api/auth/figma"
)

// authStart sends the browser to Figma's consent page. The state travels in a
// short-lived HttpOnly cookie and is checked on the callback.
func (s *Server) authStart(c *gin.Context) {
	if s.oauth == nil {
		fail(c, http.StatusNotFound, "OAuth is not configured")
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, authPath, "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *Server) authCallback(c *gin.Context) {
	if s.oauth == nil {
		fail(c, http.StatusNotFound, "OAuth is not configured")
		return
	}

	if e := c.Query("error"); e != "" {
		fail(c, http.StatusBadRequest, "authorization denied: "+e)
		return
	}

	expected, err := c.Cookie(stateCookie)
	state := c.Query("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		fail(c, http.StatusBadRequest, "invalid OAuth state")
		return
	}
	c.SetCookie(stateCookie, "", -1, authPath, "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		fail(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	tok, err := s.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	s.logger.Info("Figma OAuth token issued")
	ok(c, gin.H{
		"accessToken":  tok.AccessToken,
		"refreshToken": tok.RefreshToken,
		"tokenType":    tok.Type(),
		"expiresAt":    tok.Expiry,
	})
}
