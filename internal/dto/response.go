package dto

// ── 用户模块响应 ──

// UserResponse 用户信息响应
// 与原有接口一致返回完整记录（含明文 clave）——密码散列化不在本服务范围内
type UserResponse struct {
	ID      string `json:"id"`
	Usuario string `json:"usuario"`
	Clave   string `json:"clave"`
	Correo  string `json:"correo"`
	Rol     string `json:"rol"`
	Grado   string `json:"grado"`
	Materia string `json:"materia"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Usuario *UserResponse `json:"usuario,omitempty"`
}

// UpdateUserResponse 更新成功响应
type UpdateUserResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Usuario *UserResponse `json:"usuario,omitempty"`
}

// ── 课程-科目模块响应 ──

// SubjectsResponse 课程科目列表响应
// 课程不存在与课程无科目配置不作区分，均返回空列表
type SubjectsResponse struct {
	Success  bool     `json:"success"`
	Materias []string `json:"materias"`
}

// ── 批量导入响应 ──

// ImportUserError 导入失败的单行明细
type ImportUserError struct {
	Fila   int    `json:"fila"`
	Motivo string `json:"motivo"`
}

// ImportUserResponse 批量导入结果
type ImportUserResponse struct {
	Success  bool              `json:"success"`
	Total    int               `json:"total"`
	Exitosos int               `json:"exitosos"`
	Fallidos int               `json:"fallidos"`
	Errores  []ImportUserError `json:"errores,omitempty"`
}
