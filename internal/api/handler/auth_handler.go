package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/service"
	"github.com/Edimercado/plataforma-escolar/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /login
// 凭据不匹配按正常业务结果返回 200 + success:false（沿用原有前端约定）
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Solicitud inválida")
		return
	}

	user, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusOK, dto.LoginResponse{
				Success: false,
				Message: "Usuario o clave incorrectos",
			})
			return
		}
		response.InternalError(c, "Error del servidor")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login exitoso",
		Usuario: user,
	})
}
