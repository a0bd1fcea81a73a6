package api

import (
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// UserHandler 结构体，用于封装与用户相关的 HTTP 请求处理逻辑
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler 创建并返回一个新的 UserHandler 实例
func NewUserHandler() *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(),
	}
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		if err.Error() == "username or email already exists" {
			utils.Conflict(c, err.Error())
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	utils.Success(c, user)
}

// Login 用户登录，成功后返回JWT令牌和用户信息
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	token, user, err := h.userService.Login(&req)
	if err != nil {
		switch err.Error() {
		case "invalid username or password":
			utils.Unauthorized(c, err.Error())
		case "user account is disabled":
			utils.Forbidden(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout 用户登出，令牌进入黑名单直至自然过期
func (h *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.Unauthorized(c, "Missing authorization header")
		return
	}

	if err := h.userService.Logout(authHeader); err != nil {
		if err.Error() == "invalid token" {
			utils.Unauthorized(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}

// GetProfile 获取当前登录用户信息
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		if err.Error() == "user not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, user)
}

// GetUser 获取指定用户的公开信息
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		if err.Error() == "user not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, user)
}
