package dto

// ── shared responses ──

// UserResponse user without credentials
type UserResponse struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Email    string     `json:"email,omitempty"`
	Role     string     `json:"role"`
	IsActive bool       `json:"is_active"`
	Unit     *UnitBrief `json:"unit,omitempty"`
}

// UnitBrief id and name of a unit
type UnitBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StaffBrief id, name and phone of a staff member
type StaffBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
