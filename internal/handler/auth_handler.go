package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kabir4874/AnondoShop-Backend/internal/service"
	"github.com/Kabir4874/AnondoShop-Backend/pkg/middleware"
)

type AuthHandler struct {
	users     *service.UserService
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(users *service.UserService, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type credentialsRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "phone and password are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Phone, req.Password, req.Name)
	if err != nil {
		failJSON(c, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.UserID, false)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "phone and password are required"})
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		failJSON(c, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.UserID, false)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
