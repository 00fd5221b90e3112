package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/security"
	"gorm.io/gorm"
)

// AuthHandler signs admins in and manages the optional TOTP second factor.
type AuthHandler struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg}
}

// loginRequest captures the login payload. Code is required only when the
// account has TOTP enabled.
type loginRequest struct {
	Username string `json:"username"` // Login name.
	Password string `json:"password"` // Plaintext password.
	Code     string `json:"code"`     // TOTP code, when enabled.
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.Admin
	errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !admin.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
		return
	}
	if !security.CheckPassword(admin.Password, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if admin.TOTPSecret != "" {
		if body.Code == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "totp code required", "totp_required": true})
			return
		}
		if !security.ValidateTOTP(admin.TOTPSecret, body.Code) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid totp code"})
			return
		}
	}

	token, errSign := security.SignAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, h.jwtCfg.Expiry)
	if errSign != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": admin.Username,
	})
}

// totpConfirmRequest carries the code proving the authenticator was enrolled.
type totpConfirmRequest struct {
	Secret string `json:"secret"` // Secret returned by PrepareTOTP.
	Code   string `json:"code"`   // Current code from the authenticator.
}

// PrepareTOTP generates a candidate TOTP secret for the signed-in admin.
// The secret only takes effect after ConfirmTOTP proves enrollment.
func (h *AuthHandler) PrepareTOTP(c *gin.Context) {
	username := c.GetString("adminUsername")
	secret, url, errGenerate := security.GenerateTOTPSecret("Kamunity Admin", username)
	if errGenerate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate totp secret failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": secret, "url": url})
}

// ConfirmTOTP enables the second factor after the code validates.
func (h *AuthHandler) ConfirmTOTP(c *gin.Context) {
	var body totpConfirmRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Secret == "" || !security.ValidateTOTP(body.Secret, body.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid totp code"})
		return
	}

	adminID := c.GetUint64("adminID")
	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("totp_secret", body.Secret).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true})
}

// DisableTOTP removes the second factor from the signed-in admin.
func (h *AuthHandler) DisableTOTP(c *gin.Context) {
	adminID := c.GetUint64("adminID")
	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("totp_secret", "").Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": false})
}
