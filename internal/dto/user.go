package dto

// ── 用户模块 DTO ──

// RegisterRequest 注册请求
// 必填校验在 Service 层完成（usuario/clave/correo/rol），
// grado 与 materia 无论角色为何始终可选
type RegisterRequest struct {
	Usuario string `json:"usuario"`
	Clave   string `json:"clave"`
	Correo  string `json:"correo"`
	Rol     string `json:"rol"`
	Grado   string `json:"grado"`
	Materia string `json:"materia"`
}

// UpdateUserRequest 更新用户请求
// 按键覆盖写入：请求体出现的字段整组覆盖（含空串），缺失的字段保持原值，
// clave 不在可更新字段集内
type UpdateUserRequest struct {
	Usuario *string `json:"usuario"`
	Correo  *string `json:"correo"`
	Rol     *string `json:"rol"`
	Grado   *string `json:"grado"`
	Materia *string `json:"materia"`
}
