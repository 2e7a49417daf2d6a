package dto

// ── users ──

// UserListRequest user list filters
type UserListRequest struct {
	PaginationRequest
	UnitID  string `form:"unit_id" binding:"omitempty,uuid"`
	Role    string `form:"role"    binding:"omitempty,oneof=admin supervisor member"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest admin-created login
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=60,alphanum"`
	Name     string `json:"name"     binding:"required,min=2,max=120"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin supervisor member"`
	UnitID   string `json:"unit_id"  binding:"required,uuid"`
}
