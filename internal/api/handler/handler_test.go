package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// ── Mock 服务 ──

var errBoom = errors.New("boom")

type mockAuthService struct {
	user *dto.UserResponse
	err  error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.UserResponse, error) {
	return m.user, m.err
}

type mockUserService struct {
	user         *dto.UserResponse
	users        []dto.UserResponse
	importResult *dto.ImportUserResponse
	err          error
}

func (m *mockUserService) Register(_ context.Context, _ *dto.RegisterRequest) error { return m.err }
func (m *mockUserService) List(_ context.Context) ([]dto.UserResponse, error) {
	return m.users, m.err
}
func (m *mockUserService) GetByUsername(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return m.user, m.err
}
func (m *mockUserService) Delete(_ context.Context, _ string) error { return m.err }
func (m *mockUserService) ParseImportFile(_ io.Reader) ([]service.ImportUserRow, error) {
	return nil, m.err
}
func (m *mockUserService) ImportUsers(_ context.Context, _ []service.ImportUserRow) (*dto.ImportUserResponse, error) {
	return m.importResult, m.err
}

type mockCurriculumService struct {
	subjects []string
	err      error
}

func (m *mockCurriculumService) SubjectsForCourse(_ context.Context, _ string) ([]string, error) {
	return m.subjects, m.err
}

// ── 测试辅助 ──

func sampleUser() *dto.UserResponse {
	return &dto.UserResponse{
		ID:      "uid-001",
		Usuario: "ana",
		Clave:   "secreta",
		Correo:  "ana@colegio.edu.co",
		Rol:     "student",
		Grado:   "6A",
	}
}

func doJSONRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体解析失败: %v（body=%s）", err, w.Body.String())
	}
	return body
}

// ── Login 测试 ──

func setupLoginRouter(svc service.AuthService) *gin.Engine {
	r := gin.New()
	r.POST("/login", NewAuthHandler(svc).Login)
	return r
}

func TestAuthHandler_Login_Success(t *testing.T) {
	r := setupLoginRouter(&mockAuthService{user: sampleUser()})

	w := doJSONRequest(r, http.MethodPost, "/login", gin.H{
		"usuario": "ana", "clave": "secreta", "rol": "student",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("期望success=true，实际=%v", body["success"])
	}
	if body["message"] != "Login exitoso" {
		t.Errorf("期望message=Login exitoso，实际=%v", body["message"])
	}
	usuario, ok := body["usuario"].(map[string]interface{})
	if !ok {
		t.Fatal("期望响应包含 usuario 对象")
	}
	if usuario["usuario"] != "ana" || usuario["clave"] != "secreta" {
		t.Errorf("期望返回完整用户记录，实际=%v", usuario)
	}
}

// 凭据不匹配按业务结果返回 200 + success:false，而非 401
func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	r := setupLoginRouter(&mockAuthService{err: service.ErrInvalidCredentials})

	w := doJSONRequest(r, http.MethodPost, "/login", gin.H{
		"usuario": "ana", "clave": "mala", "rol": "student",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("期望success=false，实际=%v", body["success"])
	}
	if body["message"] != "Usuario o clave incorrectos" {
		t.Errorf("期望message=Usuario o clave incorrectos，实际=%v", body["message"])
	}
	if _, ok := body["usuario"]; ok {
		t.Error("失败响应不应包含 usuario 字段")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	r := setupLoginRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("{no es json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望状态码400，实际=%d", w.Code)
	}
}

func TestAuthHandler_Login_ServerError(t *testing.T) {
	r := setupLoginRouter(&mockAuthService{err: errBoom})

	w := doJSONRequest(r, http.MethodPost, "/login", gin.H{
		"usuario": "ana", "clave": "secreta", "rol": "student",
	})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望状态码500，实际=%d", w.Code)
	}
}

// ── Register 测试 ──

func setupUserRouter(svc service.UserService) *gin.Engine {
	h := NewUserHandler(svc)
	r := gin.New()
	r.POST("/registrar", h.Register)
	r.GET("/usuarios", h.ListUsers)
	r.GET("/usuario/:usuario", h.GetUser)
	r.PUT("/usuario/:id", h.UpdateUser)
	r.DELETE("/usuario/:id", h.DeleteUser)
	return r
}

func TestUserHandler_Register_Success(t *testing.T) {
	r := setupUserRouter(&mockUserService{})

	w := doJSONRequest(r, http.MethodPost, "/registrar", gin.H{
		"usuario": "ana", "clave": "secreta", "correo": "ana@colegio.edu.co", "rol": "student",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true || body["message"] != "Usuario registrado correctamente" {
		t.Errorf("期望注册成功文案，实际=%v", body)
	}
}

func TestUserHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{"缺少字段", service.ErrMissingFields, http.StatusBadRequest, "Faltan campos obligatorios"},
		{"用户已存在", service.ErrUserExists, http.StatusBadRequest, "El usuario ya existe"},
		{"存储故障", errBoom, http.StatusInternalServerError, "Error al registrar usuario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupUserRouter(&mockUserService{err: tt.svcErr})

			w := doJSONRequest(r, http.MethodPost, "/registrar", gin.H{"usuario": "ana"})
			if w.Code != tt.wantStatus {
				t.Errorf("期望状态码%d，实际=%d", tt.wantStatus, w.Code)
			}
			body := decodeBody(t, w)
			if body["success"] != false || body["message"] != tt.wantMsg {
				t.Errorf("期望message=%s，实际=%v", tt.wantMsg, body)
			}
		})
	}
}

// ── ListUsers 测试 ──

// 列表接口返回裸数组，无统一包装
func TestUserHandler_ListUsers(t *testing.T) {
	r := setupUserRouter(&mockUserService{users: []dto.UserResponse{*sampleUser()}})

	w := doJSONRequest(r, http.MethodGet, "/usuarios", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	var users []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("期望裸数组响应: %v（body=%s）", err, w.Body.String())
	}
	if len(users) != 1 || users[0]["usuario"] != "ana" {
		t.Errorf("期望包含ana的数组，实际=%v", users)
	}
}

func TestUserHandler_ListUsers_Empty(t *testing.T) {
	r := setupUserRouter(&mockUserService{users: []dto.UserResponse{}})

	w := doJSONRequest(r, http.MethodGet, "/usuarios", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("期望空数组[]，实际=%s", w.Body.String())
	}
}

func TestUserHandler_ListUsers_ServerError(t *testing.T) {
	r := setupUserRouter(&mockUserService{err: errBoom})

	w := doJSONRequest(r, http.MethodGet, "/usuarios", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望状态码500，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Error al obtener usuarios" {
		t.Errorf("期望列表错误文案，实际=%v", body)
	}
}

// ── GetUser 测试 ──

func TestUserHandler_GetUser(t *testing.T) {
	r := setupUserRouter(&mockUserService{user: sampleUser()})

	w := doJSONRequest(r, http.MethodGet, "/usuario/ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	// 裸对象响应，含完整记录
	body := decodeBody(t, w)
	if body["usuario"] != "ana" || body["clave"] != "secreta" {
		t.Errorf("期望完整用户记录，实际=%v", body)
	}
	if _, ok := body["success"]; ok {
		t.Error("单用户查询不应带统一包装")
	}
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	r := setupUserRouter(&mockUserService{err: service.ErrUserNotFound})

	w := doJSONRequest(r, http.MethodGet, "/usuario/fantasma", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望状态码404，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Usuario no encontrado" {
		t.Errorf("期望message=Usuario no encontrado，实际=%v", body)
	}
}

// ── UpdateUser 测试 ──

func TestUserHandler_UpdateUser(t *testing.T) {
	updated := sampleUser()
	updated.Rol = "teacher"
	r := setupUserRouter(&mockUserService{user: updated})

	w := doJSONRequest(r, http.MethodPut, "/usuario/uid-001", gin.H{"rol": "teacher"})
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true || body["message"] != "Usuario actualizado correctamente" {
		t.Errorf("期望更新成功文案，实际=%v", body)
	}
	usuario, ok := body["usuario"].(map[string]interface{})
	if !ok || usuario["rol"] != "teacher" {
		t.Errorf("期望返回更新后的记录，实际=%v", body["usuario"])
	}
}

// 空请求体合法：不含任何字段时记录保持原值
func TestUserHandler_UpdateUser_EmptyBody(t *testing.T) {
	r := setupUserRouter(&mockUserService{user: sampleUser()})

	req := httptest.NewRequest(http.MethodPut, "/usuario/uid-001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("空请求体期望状态码200，实际=%d（body=%s）", w.Code, w.Body.String())
	}
}

func TestUserHandler_UpdateUser_NotFound(t *testing.T) {
	r := setupUserRouter(&mockUserService{err: service.ErrUserNotFound})

	w := doJSONRequest(r, http.MethodPut, "/usuario/uid-999", gin.H{"rol": "teacher"})
	if w.Code != http.StatusNotFound {
		t.Errorf("期望状态码404，实际=%d", w.Code)
	}
}

// ── DeleteUser 测试 ──

func TestUserHandler_DeleteUser(t *testing.T) {
	r := setupUserRouter(&mockUserService{})

	w := doJSONRequest(r, http.MethodDelete, "/usuario/uid-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Usuario eliminado correctamente" {
		t.Errorf("期望删除成功文案，实际=%v", body)
	}
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	r := setupUserRouter(&mockUserService{err: service.ErrUserNotFound})

	w := doJSONRequest(r, http.MethodDelete, "/usuario/uid-999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望状态码404，实际=%d", w.Code)
	}
}

// ── ImportUsers 测试 ──

func setupImportRouter(svc service.UserService) *gin.Engine {
	r := gin.New()
	r.POST("/usuarios/importar", NewUserHandler(svc).ImportUsers)
	return r
}

func doImportRequest(r *gin.Engine) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("archivo", "usuarios.xlsx")
	part.Write([]byte("contenido de prueba"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/usuarios/importar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_ImportUsers(t *testing.T) {
	r := setupImportRouter(&mockUserService{
		importResult: &dto.ImportUserResponse{Success: true, Total: 3, Exitosos: 2, Fallidos: 1},
	})

	w := doImportRequest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d（body=%s）", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["total"] != float64(3) || body["exitosos"] != float64(2) || body["fallidos"] != float64(1) {
		t.Errorf("期望total=3 exitosos=2 fallidos=1，实际=%v", body)
	}
}

func TestUserHandler_ImportUsers_MissingFile(t *testing.T) {
	r := setupImportRouter(&mockUserService{})

	w := doJSONRequest(r, http.MethodPost, "/usuarios/importar", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望状态码400，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Falta el archivo a importar" {
		t.Errorf("期望缺文件文案，实际=%v", body)
	}
}

// 解析失败时把解析错误文案原样返回给前端
func TestUserHandler_ImportUsers_ParseError(t *testing.T) {
	r := setupImportRouter(&mockUserService{err: errors.New("El archivo Excel no contiene filas de datos (la primera fila es el encabezado)")})

	w := doImportRequest(r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望状态码400，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "El archivo Excel no contiene filas de datos (la primera fila es el encabezado)" {
		t.Errorf("期望解析错误文案透传，实际=%v", body)
	}
}

// ── GetSubjects 测试 ──

func setupCurriculumRouter(svc service.CurriculumService) *gin.Engine {
	r := gin.New()
	r.GET("/asignaturas/:curso", NewCurriculumHandler(svc).GetSubjects)
	return r
}

func TestCurriculumHandler_GetSubjects(t *testing.T) {
	r := setupCurriculumRouter(&mockCurriculumService{
		subjects: []string{"Matemáticas", "Español"},
	})

	w := doJSONRequest(r, http.MethodGet, "/asignaturas/6A", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("期望success=true，实际=%v", body)
	}
	materias, ok := body["materias"].([]interface{})
	if !ok || len(materias) != 2 || materias[0] != "Matemáticas" {
		t.Errorf("期望materias=[Matemáticas Español]，实际=%v", body["materias"])
	}
}

// 未知课程返回 success:true + 空列表
func TestCurriculumHandler_GetSubjects_Empty(t *testing.T) {
	r := setupCurriculumRouter(&mockCurriculumService{subjects: []string{}})

	w := doJSONRequest(r, http.MethodGet, "/asignaturas/11C", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望状态码200，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("期望success=true，实际=%v", body)
	}
	materias, ok := body["materias"].([]interface{})
	if !ok {
		t.Fatalf("期望materias为数组（非null），实际=%v", body["materias"])
	}
	if len(materias) != 0 {
		t.Errorf("期望空列表，实际=%v", materias)
	}
}

func TestCurriculumHandler_GetSubjects_ServerError(t *testing.T) {
	r := setupCurriculumRouter(&mockCurriculumService{err: errBoom})

	w := doJSONRequest(r, http.MethodGet, "/asignaturas/6A", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望状态码500，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Error al obtener asignaturas" {
		t.Errorf("期望message=Error al obtener asignaturas，实际=%v", body)
	}
}
