package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Edimercado/plataforma-escolar/config"
	"github.com/Edimercado/plataforma-escolar/internal/api/handler"
	"github.com/Edimercado/plataforma-escolar/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// 路由保持原有扁平路径（无 /api 前缀），前端页面直接依赖这些路径
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 认证 ──
	r.POST("/login", h.Auth.Login)

	// ── 课程-科目 ──
	r.GET("/asignaturas/:curso", h.Curriculum.GetSubjects)

	// ── 用户 ──
	r.POST("/registrar", h.User.Register)
	r.GET("/usuarios", h.User.ListUsers)
	r.POST("/usuarios/importar", h.User.ImportUsers)
	r.GET("/usuario/:usuario", h.User.GetUser)
	r.PUT("/usuario/:id", h.User.UpdateUser)
	r.DELETE("/usuario/:id", h.User.DeleteUser)

	// ── 静态页面 ──
	staticDir := cfg.Server.StaticDir
	if staticDir != "" {
		if page := filepath.Join(staticDir, "login.html"); fileExists(page) {
			r.StaticFile("/login", page)
		}
		if page := filepath.Join(staticDir, "panel.html"); fileExists(page) {
			r.StaticFile("/panel", page)
		}
		// 其余未匹配的 GET 请求回退到静态目录（等价于原有根路径静态托管）
		fileServer := http.FileServer(http.Dir(staticDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
			c.Status(http.StatusNotFound)
		})
	}

	return r
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
