package scope

// UnitRef unit id and display name
type UnitRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Principal authenticated caller as carried by the access token
type Principal struct {
	UserID     string
	Role       string
	HomeUnitID string
}

// ActingContext request-scoped unit context threaded through every scoped
// query. HomeUnitID and ActingUnitID are empty when the home unit no longer
// exists; Units and Subtree are then explicitly empty.
type ActingContext struct {
	UserID              string
	Role                string
	HomeUnitID          string
	ActingUnitID        string
	ActingUnitName      string
	CanActOnDescendants bool
	Capabilities        []string
	Visible             []UnitRef // sorted by name

	// Units restricts to the acting unit.
	Units Scope
	// Subtree is the acting unit plus its descendants when the caller may
	// act on descendants, otherwise equal to Units.
	Subtree Scope
}

// HasUnit reports whether an acting unit was resolved.
func (a *ActingContext) HasUnit() bool {
	return a != nil && a.ActingUnitID != ""
}

// Can reports a capability of the caller's role.
func (a *ActingContext) Can(capability string) bool {
	if a == nil {
		return false
	}
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Allows reports whether unitID is among the caller's visible units.
func (a *ActingContext) Allows(unitID string) bool {
	if a == nil {
		return false
	}
	for _, u := range a.Visible {
		if u.ID == unitID {
			return true
		}
	}
	return false
}

// VisibleScope every visible unit as a query filter.
func (a *ActingContext) VisibleScope() Scope {
	if a == nil {
		return Of()
	}
	ids := make([]string, 0, len(a.Visible))
	for _, u := range a.Visible {
		ids = append(ids, u.ID)
	}
	return Of(ids...)
}
