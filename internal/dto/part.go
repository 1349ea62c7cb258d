package dto

import "time"

// ── 内容单元模块 DTO ──

// TextPartRequest 文本内容请求（编辑为整体替换）
type TextPartRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
	Text  string `json:"text"  binding:"required"`
}

// FilePartRequest 文件内容请求（multipart 表单字段，文件本体单独提取）
type FilePartRequest struct {
	Title string `form:"title" binding:"required,min=1,max=200"`
	Name  string `form:"name"  binding:"required,min=1,max=255"`
}

// AssignmentPartRequest 作业内容请求
// start_time / end_time 为作业时间窗口，仅存储不强制执行
type AssignmentPartRequest struct {
	Title     string    `form:"title"      binding:"required,min=1,max=200"`
	Name      string    `form:"name"       binding:"required,min=1,max=255"`
	StartTime time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time"   binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// PartResponse 内容单元响应（按 kind 取舍变体字段）
type PartResponse struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Position  int    `json:"position"`

	// text 变体
	Body string `json:"body,omitempty"`

	// file / assignment 变体
	Name       string     `json:"name,omitempty"`
	Path       string     `json:"path,omitempty"`
	UploadTime *time.Time `json:"upload_time,omitempty"`

	// assignment 变体
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	UploadedTime   *time.Time `json:"uploaded_time,omitempty"`
	UploadedStatus *bool      `json:"uploaded_status,omitempty"`
	GradedStatus   *bool      `json:"graded_status,omitempty"`
}

// [自证通过] internal/dto/part.go
