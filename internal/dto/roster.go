package dto

// ── duty rosters ──

// WindowSelection explicit staff for one window, in assignment order
type WindowSelection struct {
	Window   int      `json:"window"    binding:"required,min=1"`
	StaffIDs []string `json:"staff_ids" binding:"dive,uuid"`
}

// RosterRequest preview or create a roster. Windows without a selection
// fall back to the daily round-robin.
type RosterRequest struct {
	Start      string            `json:"start"      binding:"required,isodate"`
	End        string            `json:"end"        binding:"required,isodate"`
	Note       string            `json:"note"       binding:"omitempty,max=500"`
	Selections []WindowSelection `json:"selections" binding:"omitempty,dive"`
}

// RosterDraft in-progress builder state kept in the session
type RosterDraft struct {
	Start      string            `json:"start"      binding:"omitempty,isodate"`
	End        string            `json:"end"        binding:"omitempty,isodate"`
	Note       string            `json:"note"       binding:"omitempty,max=500"`
	Selections []WindowSelection `json:"selections" binding:"omitempty,dive"`
}

// RosterListRequest list filters; From/To select rosters overlapping that range
type RosterListRequest struct {
	PaginationRequest
	From string `form:"from" binding:"omitempty,isodate"`
	To   string `form:"to"   binding:"omitempty,isodate"`
}

// RosterFeedRequest GET /rosters/feed
type RosterFeedRequest struct {
	Start string `form:"start" binding:"required,isodate"`
	End   string `form:"end"   binding:"required,isodate"`
}

// ── preview ──

// SlotResponse one assignment in a preview window
type SlotResponse struct {
	Ordinal int        `json:"ordinal"`
	Staff   StaffBrief `json:"staff"`
	Date    string     `json:"date,omitempty"`
}

// RestConflictItem staff member assigned while on rest
type RestConflictItem struct {
	StaffID      string `json:"staff_id"`
	StaffName    string `json:"staff_name"`
	RestPeriodID string `json:"rest_period_id"`
	Category     string `json:"category"`
	Period       string `json:"period"`
}

// PreviewWindow one tiled window of a preview
type PreviewWindow struct {
	Ordinal   int                `json:"ordinal"`
	Start     string             `json:"start"`
	End       string             `json:"end"`
	Selected  bool               `json:"selected"`
	Pool      []StaffBrief       `json:"pool"`
	Slots     []SlotResponse     `json:"slots"`
	Conflicts []RestConflictItem `json:"conflicts,omitempty"`
}

// RosterPreviewResponse builder view; conflicts are warnings here
type RosterPreviewResponse struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Available    []StaffBrief    `json:"available"`
	Windows      []PreviewWindow `json:"windows"`
	HasConflicts bool            `json:"has_conflicts"`
}

// ── committed rosters ──

// AssignmentResponse committed slot with the phone as it was at commit time
type AssignmentResponse struct {
	Ordinal   int    `json:"ordinal"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	Phone     string `json:"phone,omitempty"`
	DutyDate  string `json:"duty_date,omitempty"`
}

// WeekResponse committed shift week
type WeekResponse struct {
	Ordinal     int                  `json:"ordinal"`
	Start       string               `json:"start"`
	End         string               `json:"end"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// RosterResponse committed roster
type RosterResponse struct {
	ID        string         `json:"id"`
	Unit      UnitBrief      `json:"unit"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Note      string         `json:"note,omitempty"`
	CreatedBy string         `json:"created_by,omitempty"`
	CreatedAt string         `json:"created_at"`
	Weeks     []WeekResponse `json:"weeks,omitempty"`
}

// FeedWindow one committed week intersecting the requested range
type FeedWindow struct {
	RosterID string       `json:"roster_id"`
	Start    string       `json:"start"`
	End      string       `json:"end"`
	Staff    []StaffBrief `json:"staff"`
}
