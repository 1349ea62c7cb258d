package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/minhchi1709/education/internal/model"
	"github.com/minhchi1709/education/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses    map[string]*model.Course
	students   []*model.CourseStudent
	assistants []*model.CourseAssistant
	users      *mockUserRepo
	seq        int
}

func newMockCourseRepo(users *mockUserRepo) *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course), users: users}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.seq++
		course.CourseID = fmt.Sprintf("course-%03d", m.seq)
	}
	course.CreatedAt = time.Now()
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		if c.Teacher == nil {
			c.Teacher = m.users.users[c.TeacherID]
		}
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListByStudent(_ context.Context, userID string) ([]model.Course, error) {
	seen := make(map[string]bool)
	var result []model.Course
	for _, rec := range m.students {
		if rec.UserID != userID || seen[rec.CourseID] {
			continue
		}
		seen[rec.CourseID] = true
		if c, ok := m.courses[rec.CourseID]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListByAssistant(_ context.Context, userID string) ([]model.Course, error) {
	seen := make(map[string]bool)
	var result []model.Course
	for _, rec := range m.assistants {
		if rec.UserID != userID || seen[rec.CourseID] {
			continue
		}
		seen[rec.CourseID] = true
		if c, ok := m.courses[rec.CourseID]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) AddStudent(_ context.Context, rec *model.CourseStudent) error {
	if rec.EnrollmentID == "" {
		m.seq++
		rec.EnrollmentID = fmt.Sprintf("enroll-%03d", m.seq)
	}
	rec.CreatedAt = time.Now()
	// 不去重：同一学生可重复选同一门课
	m.students = append(m.students, rec)
	return nil
}

func (m *mockCourseRepo) AddAssistant(_ context.Context, rec *model.CourseAssistant) error {
	if rec.RecordID == "" {
		m.seq++
		rec.RecordID = fmt.Sprintf("assist-%03d", m.seq)
	}
	rec.CreatedAt = time.Now()
	m.assistants = append(m.assistants, rec)
	return nil
}

func (m *mockCourseRepo) ListStudents(_ context.Context, courseID string) ([]model.User, error) {
	var result []model.User
	for _, rec := range m.students {
		if rec.CourseID != courseID {
			continue
		}
		if u, ok := m.users.users[rec.UserID]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListAssistants(_ context.Context, courseID string) ([]model.User, error) {
	var result []model.User
	for _, rec := range m.assistants {
		if rec.CourseID != courseID {
			continue
		}
		if u, ok := m.users.users[rec.UserID]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) IsAssistant(_ context.Context, courseID, userID string) (bool, error) {
	for _, rec := range m.assistants {
		if rec.CourseID == courseID && rec.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) IsStudent(_ context.Context, courseID, userID string) (bool, error) {
	for _, rec := range m.students {
		if rec.CourseID == courseID && rec.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// countStudents 统计某学生在某课程的选课行数（测试用）
func (m *mockCourseRepo) countStudents(courseID, userID string) int {
	n := 0
	for _, rec := range m.students {
		if rec.CourseID == courseID && rec.UserID == userID {
			n++
		}
	}
	return n
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	sections map[string]*model.Section
	seq      int
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[string]*model.Section)}
}

func (m *mockSectionRepo) Create(_ context.Context, section *model.Section) error {
	if section.SectionID == "" {
		m.seq++
		section.SectionID = fmt.Sprintf("section-%03d", m.seq)
	}
	section.CreatedAt = time.Now()
	m.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.Section, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) ListByCourse(_ context.Context, courseID string) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockSectionRepo) Update(_ context.Context, section *model.Section) error {
	m.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id string) error {
	delete(m.sections, id)
	return nil
}

func (m *mockSectionRepo) MaxPosition(_ context.Context, courseID string) (int, error) {
	max := 0
	for _, s := range m.sections {
		if s.CourseID == courseID && s.Position > max {
			max = s.Position
		}
	}
	return max, nil
}

// ── Mock PartRepository ──

type mockPartRepo struct {
	parts map[string]*model.Part
	seq   int
}

func newMockPartRepo() *mockPartRepo {
	return &mockPartRepo{parts: make(map[string]*model.Part)}
}

func (m *mockPartRepo) Create(_ context.Context, part *model.Part) error {
	if part.PartID == "" {
		m.seq++
		part.PartID = fmt.Sprintf("part-%03d", m.seq)
	}
	part.CreatedAt = time.Now()
	m.parts[part.PartID] = part
	return nil
}

func (m *mockPartRepo) GetByID(_ context.Context, id string) (*model.Part, error) {
	if p, ok := m.parts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPartRepo) ListBySection(_ context.Context, sectionID string) ([]model.Part, error) {
	var result []model.Part
	for _, p := range m.parts {
		if p.SectionID == sectionID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockPartRepo) Update(_ context.Context, part *model.Part) error {
	m.parts[part.PartID] = part
	return nil
}

func (m *mockPartRepo) Delete(_ context.Context, id string) error {
	delete(m.parts, id)
	return nil
}

func (m *mockPartRepo) DeleteBySection(_ context.Context, sectionID string) error {
	for id, p := range m.parts {
		if p.SectionID == sectionID {
			delete(m.parts, id)
		}
	}
	return nil
}

func (m *mockPartRepo) MaxPosition(_ context.Context, sectionID string) (int, error) {
	max := 0
	for _, p := range m.parts {
		if p.SectionID == sectionID && p.Position > max {
			max = p.Position
		}
	}
	return max, nil
}

// ── Mock GradeRepository ──

// 切片保持写入顺序：同键多行时 GetByStudentAndAssignment 返回最早一行，
// 与真实实现的 ORDER BY created_at ASC 一致
type mockGradeRepo struct {
	grades []*model.AssignmentGrade
	users  *mockUserRepo
	parts  *mockPartRepo
	seq    int
}

func newMockGradeRepo(users *mockUserRepo, parts *mockPartRepo) *mockGradeRepo {
	return &mockGradeRepo{users: users, parts: parts}
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.AssignmentGrade) error {
	if grade.GradeID == "" {
		m.seq++
		grade.GradeID = fmt.Sprintf("grade-%03d", m.seq)
	}
	grade.CreatedAt = time.Now()
	m.grades = append(m.grades, grade)
	return nil
}

func (m *mockGradeRepo) GetByStudentAndAssignment(_ context.Context, studentID, assignmentID string) (*model.AssignmentGrade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.AssignmentID == assignmentID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID string) ([]model.AssignmentGrade, error) {
	var result []model.AssignmentGrade
	for _, g := range m.grades {
		if g.StudentID != studentID {
			continue
		}
		row := *g
		row.Assignment = m.parts.parts[g.AssignmentID]
		result = append(result, row)
	}
	return result, nil
}

func (m *mockGradeRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.AssignmentGrade, error) {
	var result []model.AssignmentGrade
	for _, g := range m.grades {
		if g.AssignmentID != assignmentID {
			continue
		}
		row := *g
		row.Student = m.users.users[g.StudentID]
		result = append(result, row)
	}
	return result, nil
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.AssignmentGrade) error {
	for i, g := range m.grades {
		if g.GradeID == grade.GradeID {
			m.grades[i] = grade
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	for i, g := range m.grades {
		if g.GradeID == id {
			m.grades = append(m.grades[:i], m.grades[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockGradeRepo) DeleteByAssignment(_ context.Context, assignmentID string) error {
	kept := m.grades[:0]
	for _, g := range m.grades {
		if g.AssignmentID != assignmentID {
			kept = append(kept, g)
		}
	}
	m.grades = kept
	return nil
}

// ── Mock TxManager ──

// 测试中事务退化为直通调用，fn 直接操作同一组 mock
type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) Transaction(_ context.Context, fn func(r *repository.Repository) error) error {
	return fn(m.repo)
}

// ── Mock Storage ──

type mockStorage struct {
	files   map[string][]byte
	deleted []string
	seq     int

	failSave  bool
	deleteErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(_ context.Context, data []byte, filename, courseID string) (string, error) {
	if m.failSave {
		return "", errors.New("存储后端不可用")
	}
	m.seq++
	path := fmt.Sprintf("courses/%s/%d-%s", courseID, m.seq, filename)
	m.files[path] = data
	return path, nil
}

func (m *mockStorage) SaveAssignment(_ context.Context, data []byte, filename, courseID string) (string, error) {
	if m.failSave {
		return "", errors.New("存储后端不可用")
	}
	m.seq++
	path := fmt.Sprintf("courses/%s/assignments/%d-%s", courseID, m.seq, filename)
	m.files[path] = data
	return path, nil
}

func (m *mockStorage) Delete(_ context.Context, path string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, path)
	m.deleted = append(m.deleted, path)
	return nil
}

// ── 共用测试环境 ──

type testEnv struct {
	repo     *repository.Repository
	users    *mockUserRepo
	courses  *mockCourseRepo
	sections *mockSectionRepo
	parts    *mockPartRepo
	grades   *mockGradeRepo
	store    *mockStorage
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	courses := newMockCourseRepo(users)
	sections := newMockSectionRepo()
	parts := newMockPartRepo()
	grades := newMockGradeRepo(users, parts)

	repo := &repository.Repository{
		User:    users,
		Course:  courses,
		Section: sections,
		Part:    parts,
		Grade:   grades,
	}
	repo.Tx = &mockTxManager{repo: repo}

	return &testEnv{
		repo:     repo,
		users:    users,
		courses:  courses,
		sections: sections,
		parts:    parts,
		grades:   grades,
		store:    newMockStorage(),
	}
}

// seedUser 预置一个用户并返回其 ID
func (e *testEnv) seedUser(name, email string) string {
	u := &model.User{FullName: name, Email: email, PasswordHash: "x"}
	_ = e.users.Create(context.Background(), u)
	return u.UserID
}

// seedCourse 预置一门课程并返回其 ID
func (e *testEnv) seedCourse(teacherID, name string) string {
	c := &model.Course{Name: name, TeacherID: teacherID}
	_ = e.courses.Create(context.Background(), c)
	return c.CourseID
}

// [自证通过] internal/service/mock_repos_test.go
