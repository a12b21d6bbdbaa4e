package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	appcfg "github.com/ntkr/core/internal/config"
	"github.com/ntkr/core/internal/pkg/response"
	"github.com/ntkr/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler implements the single-user perimeter login. Credentials live in
// config, not the database; a successful login sets a signed session cookie.
type Handler struct {
	cfg    appcfg.AuthOptions
	secure bool
	log    *zap.Logger
}

func NewHandler(cfg appcfg.AuthOptions, secureCookie bool, log *zap.Logger) *Handler {
	return &Handler{cfg: cfg, secure: secureCookie, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	if h.cfg.Username == "" || (h.cfg.PasswordBcrypt == "" && h.cfg.Password == "") {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"ok":      0,
			"code":    http.StatusInternalServerError,
			"message": "Authentication not configured",
		})
		return
	}

	if !h.verify(dto.Username, dto.Password) {
		h.log.Warn("failed login attempt", zap.String("username", dto.Username), zap.String("ip", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"ok":      0,
			"code":    http.StatusUnauthorized,
			"message": "Invalid username or password",
		})
		return
	}

	token, err := session.Sign(dto.Username)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(session.TTL.Seconds()), "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": dto.Username,
	})
}

func (h *Handler) verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Username)) == 1

	var passOK bool
	if h.cfg.PasswordBcrypt != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordBcrypt), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Password)) == 1
	}
	return userOK && passOK
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /auth/me reports whether the current session cookie is valid.
func (h *Handler) me(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	claims, err := session.Parse(token)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": claims.Username,
	})
}
