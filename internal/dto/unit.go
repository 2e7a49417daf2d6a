package dto

// ── units ──

// CreateUnitRequest new unit; no parent makes a root
type CreateUnitRequest struct {
	Name     string  `json:"name"      binding:"required,min=2,max=120"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateUnitRequest rename and/or move a unit. MakeRoot detaches it from its parent.
type UpdateUnitRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=120"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
	MakeRoot bool    `json:"make_root"`
	Version  int     `json:"version"   binding:"required,min=1"`
}

// UnitResponse unit row
type UnitResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id,omitempty"`
	Version   int     `json:"version"`
	CreatedAt string  `json:"created_at"`
}
