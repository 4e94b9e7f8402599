package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Edimercado/plataforma-escolar/internal/model"
)

// errStorage 模拟存储不可达
var errStorage = errors.New("storage unavailable")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: usuario_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	// 唯一索引行为：用户名冲突返回 gorm.ErrDuplicatedKey
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("uid-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByCredentials(_ context.Context, username, password, role string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username && u.Password == password && u.Role == role {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range fields {
		s, _ := val.(string)
		switch col {
		case "usuario":
			u.Username = s
		case "correo":
			u.Email = s
		case "rol":
			u.Role = s
		case "grado":
			u.Grade = s
		case "materia":
			u.Subject = s
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// ── 故障注入 UserRepository：模拟存储不可达 ──

type failingUserRepo struct{}

func (failingUserRepo) Create(_ context.Context, _ *model.User) error { return errStorage }
func (failingUserRepo) GetByID(_ context.Context, _ string) (*model.User, error) {
	return nil, errStorage
}
func (failingUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, errStorage
}
func (failingUserRepo) FindByCredentials(_ context.Context, _, _, _ string) (*model.User, error) {
	return nil, errStorage
}
func (failingUserRepo) List(_ context.Context) ([]model.User, error) { return nil, errStorage }
func (failingUserRepo) UpdateFields(_ context.Context, _ string, _ map[string]interface{}) error {
	return errStorage
}
func (failingUserRepo) Delete(_ context.Context, _ string) error { return errStorage }

// ── 竞争模拟 UserRepository：唯一性预检永远放行，由 Create 的唯一索引兜底 ──

type racingUserRepo struct {
	*mockUserRepo
}

func (r racingUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseSubjectRepository ──

type mockCourseSubjectRepo struct {
	records []*model.CourseSubject
}

func newMockCourseSubjectRepo() *mockCourseSubjectRepo {
	return &mockCourseSubjectRepo{}
}

func (m *mockCourseSubjectRepo) add(course string, subjects ...string) {
	m.records = append(m.records, &model.CourseSubject{
		CourseSubjectID: fmt.Sprintf("cs-%03d", len(m.records)+1),
		Course:          course,
		Subjects:        subjects,
	})
}

func (m *mockCourseSubjectRepo) GetByCourse(_ context.Context, course string) (*model.CourseSubject, error) {
	for _, cs := range m.records {
		if cs.Course == course {
			return cs, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── 故障注入 CourseSubjectRepository ──

type failingCourseSubjectRepo struct{}

func (failingCourseSubjectRepo) GetByCourse(_ context.Context, _ string) (*model.CourseSubject, error) {
	return nil, errStorage
}
