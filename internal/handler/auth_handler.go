package handler

import (
	"github.com/bitfantasy/nimo-embroidery/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 换发 access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	token, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		SvcError(c, err)
		return
	}

	Success(c, gin.H{"access_token": token})
}

// Logout 登出
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.svc.Logout(c.Request.Context(), req.RefreshToken)
	Success(c, nil)
}

// Register 创建用户，仅管理员
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Register(req)
	if err != nil {
		SvcError(c, err)
		return
	}

	Created(c, user)
}

// Me 当前登录用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, gin.H{
		"user_id": GetUserID(c),
		"name":    c.GetString("user_name"),
		"email":   c.GetString("user_email"),
		"role":    c.GetString("role"),
	})
}
