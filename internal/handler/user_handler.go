package handler

import (
	"net/http"
	"time"

	"worksync/internal/middleware"
	"worksync/internal/service"
	"worksync/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   service.UserService
	tokenTTL      time.Duration
	secureCookies bool
}

// NewUserHandler sets up the routing dependencies for account endpoints
func NewUserHandler(userService service.UserService, tokenTTL time.Duration, secureCookies bool) *UserHandler {
	return &UserHandler{userService: userService, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

// RegisterPublicRoutes binds the endpoints that work without a token
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
}

// RegisterRoutes binds the endpoints that need an authenticated router group
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/logout", h.Logout)
	router.GET("/me", h.GetMe)
	router.PUT("/api-key", h.CreateAPIKey)
	router.GET("/api-key", h.GetAPIKey)
	router.DELETE("/api-key", h.DeleteAPIKey)
}

// Register creates an employee account
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Account"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Login handles POST /login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates by username and password, returning a JWT token and setting the access_token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest   true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetTokenCookie(c, res.Token, h.tokenTTL, h.secureCookies)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Logout revokes the current token and clears the cookie
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200      {object}  response.Response
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	expiry, _ := c.Get(middleware.ContextTokenExpiry)
	expiresAt, _ := expiry.(time.Time)
	if err := h.userService.Logout(c.Request.Context(), c.GetString(middleware.ContextTokenID), expiresAt); err != nil {
		writeError(c, err)
		return
	}
	middleware.ClearTokenCookies(c, h.secureCookies)
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Logged out successfully"))
}

// GetMe handles GET /me to return the current authenticated user
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// CreateAPIKey issues or rotates the caller's API key
// @Summary      Create API key
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200      {object}  response.Response{data=service.APIKeyResponse}
// @Router       /api-key [put]
func (h *UserHandler) CreateAPIKey(c *gin.Context) {
	key, err := h.userService.CreateAPIKey(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, key))
}

// @Summary      Get API key
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200      {object}  response.Response{data=service.APIKeyResponse}
// @Failure      404      {object}  response.Response
// @Router       /api-key [get]
func (h *UserHandler) GetAPIKey(c *gin.Context) {
	key, err := h.userService.GetAPIKey(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, key))
}

// @Summary      Delete API key
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api-key [delete]
func (h *UserHandler) DeleteAPIKey(c *gin.Context) {
	if err := h.userService.DeleteAPIKey(c.Request.Context(), c.GetUint(middleware.ContextUserID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "API key deleted"))
}
