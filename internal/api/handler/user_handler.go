package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/service"
	"github.com/Edimercado/plataforma-escolar/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Register 注册用户
// POST /registrar
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Solicitud inválida")
		return
	}

	if err := h.userSvc.Register(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			response.BadRequest(c, "Faltan campos obligatorios")
		case errors.Is(err, service.ErrUserExists):
			response.BadRequest(c, "El usuario ya existe")
		default:
			response.InternalError(c, "Error al registrar usuario")
		}
		return
	}

	response.OK(c, "Usuario registrado correctamente")
}

// ListUsers 获取全部用户
// GET /usuarios
// 与原有接口一致返回裸数组（无统一包装）
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Error al obtener usuarios")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser 按用户名查询用户
// GET /usuario/:usuario
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByUsername(c.Request.Context(), c.Param("usuario"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Usuario no encontrado")
			return
		}
		response.InternalError(c, "Error al obtener usuario")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser 按 ID 更新用户
// PUT /usuario/:id
// 空请求体合法：不含任何字段时记录保持原值（沿用原有语义）
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Solicitud inválida")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Usuario no encontrado")
			return
		}
		response.InternalError(c, "Error al actualizar usuario")
		return
	}

	c.JSON(http.StatusOK, dto.UpdateUserResponse{
		Success: true,
		Message: "Usuario actualizado correctamente",
		Usuario: user,
	})
}

// DeleteUser 按 ID 删除用户
// DELETE /usuario/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "Usuario no encontrado")
			return
		}
		response.InternalError(c, "Error al eliminar usuario")
		return
	}

	response.OK(c, "Usuario eliminado correctamente")
}

// ImportUsers 批量导入用户（Excel）
// POST /usuarios/importar
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		response.BadRequest(c, "Falta el archivo a importar")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "No se pudo leer el archivo")
		return
	}
	defer file.Close()

	rows, err := h.userSvc.ParseImportFile(file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		response.InternalError(c, "Error al importar usuarios")
		return
	}

	c.JSON(http.StatusOK, result)
}
