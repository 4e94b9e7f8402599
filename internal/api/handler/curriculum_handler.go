package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/service"
	"github.com/Edimercado/plataforma-escolar/pkg/response"
)

// CurriculumHandler 课程-科目模块 HTTP 处理器
type CurriculumHandler struct {
	curriculumSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(curriculumSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumSvc: curriculumSvc}
}

// GetSubjects 按课程代码查询科目列表
// GET /asignaturas/:curso
// 课程不存在同样返回 success:true + 空列表（沿用原有语义）
func (h *CurriculumHandler) GetSubjects(c *gin.Context) {
	subjects, err := h.curriculumSvc.SubjectsForCourse(c.Request.Context(), c.Param("curso"))
	if err != nil {
		response.InternalError(c, "Error al obtener asignaturas")
		return
	}

	c.JSON(http.StatusOK, dto.SubjectsResponse{
		Success:  true,
		Materias: subjects,
	})
}
