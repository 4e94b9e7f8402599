package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList 有序字符串列表，持久化为 JSONB
type StringList []string

// Value 实现 driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("无法将 %T 解析为 StringList", value)
	}
}

// CourseSubject 课程-科目表 — 对应 asignaturas
// curso 为查询键（如 "6A"、"7B"），不强制唯一，查询取首条匹配；
// 数据由外部管理流程预置，本服务只读
type CourseSubject struct {
	CourseSubjectID string     `gorm:"column:asignatura_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Course          string     `gorm:"column:curso;type:varchar(20);not null;index:idx_asignaturas_curso"  json:"curso"`
	Subjects        StringList `gorm:"column:materias;type:jsonb;not null;default:'[]'"                    json:"materias"`
	BaseModel
}

// TableName 指定表名
func (CourseSubject) TableName() string { return "asignaturas" }
