package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/service"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint. The issued token is both returned in the body and set as an
// HTTP-only cookie so browser and API clients share the same flow.
type AuthHandler struct {
	service      *service.AuthService
	cookieName   string
	cookieMaxAge int
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, cookieName string, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{service: svc, cookieName: cookieName, cookieMaxAge: cookieMaxAge}
}

// Register godoc
// @Summary Register account
// @Description Create a new account; the role defaults to Agent
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req, metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login godoc
// @Summary Login
// @Description Verify credentials and issue a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(h.cookieName, result.Token, h.cookieMaxAge, "/", "", false, true)
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary Logout
// @Description Clear the token cookie and record the logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	h.service.Logout(c.Request.Context(), claims.UserID, metaFromContext(c))
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	response.Message(c, http.StatusOK, "logged out")
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated account's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}
