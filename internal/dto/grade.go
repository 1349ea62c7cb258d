package dto

// ── 成绩模块 DTO ──

// GradeRequest 打分/改分请求
type GradeRequest struct {
	StudentID string   `json:"student_id" binding:"required,uuid"`
	Grade     *float64 `json:"grade"      binding:"required,gte=0"`
}

// DeleteGradeRequest 删除成绩请求（按学生定位台账行）
type DeleteGradeRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// GradeResponse 成绩响应
type GradeResponse struct {
	ID           string   `json:"id"`
	Grade        *float64 `json:"grade"`
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name,omitempty"`
	AssignmentID string   `json:"assignment_id"`
}

// [自证通过] internal/dto/grade.go
