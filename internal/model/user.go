package model

// User 用户表 — 对应 usuarios
// rol 不做枚举约束：预期值为 student / teacher / admin，但任意非空字符串合法；
// grado 仅对学生有意义，materia 仅对教师有意义，二者始终可选，
// 语义上无意义的组合（如带 grado 的 admin）也是合法状态
type User struct {
	UserID   string `gorm:"column:usuario_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username string `gorm:"column:usuario;type:varchar(100);not null;uniqueIndex:idx_usuarios_usuario" json:"usuario"`
	Password string `gorm:"column:clave;type:varchar(255);not null"                          json:"clave"`
	Email    string `gorm:"column:correo;type:varchar(255);not null"                         json:"correo"`
	Role     string `gorm:"column:rol;type:varchar(50);not null"                             json:"rol"`
	Grade    string `gorm:"column:grado;type:varchar(20);not null;default:''"                json:"grado"`
	Subject  string `gorm:"column:materia;type:varchar(100);not null;default:''"             json:"materia"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "usuarios" }
