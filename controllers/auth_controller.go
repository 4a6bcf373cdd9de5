package controllers

import (
	"errors"
	"net/http"

	"blogcms/middleware"
	"blogcms/models"
	"blogcms/services"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	userService *services.UserService
	tokens      *utils.TokenService
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenService) *AuthController {
	return &AuthController{
		userService: services.NewUserService(db),
		tokens:      tokens,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "New user"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		internalError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		internalError(c, err, "Failed to log in")
		return
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		internalError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := ac.userService.GetByID(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		internalError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}
