package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// 字段不做 binding 校验：缺失字段按空串参与三字段匹配，自然匹配不到记录，
// 与原有前端行为保持一致
type LoginRequest struct {
	Usuario string `json:"usuario"`
	Clave   string `json:"clave"`
	Rol     string `json:"rol"`
}
