package scope

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

// ErrUnitNotVisible the requested acting unit is outside the caller's visible set
var ErrUnitNotVisible = errors.New("unit is not visible to the current user")

// UnitSource loads units for tree building.
type UnitSource interface {
	ListAll(ctx context.Context) ([]model.Unit, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Unit, error)
}

// TreeCache caches descendant id lists per unit, keyed by a tree generation.
// GetDescendants reports the generation it checked; SetDescendants writes
// under exactly that generation.
type TreeCache interface {
	GetDescendants(ctx context.Context, unitID string) ([]string, int64, bool, error)
	SetDescendants(ctx context.Context, gen int64, unitID string, ids []string, ttl time.Duration) error
	InvalidateUnitTree(ctx context.Context) error
}

// SessionStore keeps the acting unit chosen by each user.
type SessionStore interface {
	GetActingUnit(ctx context.Context, userID string) (string, error)
	SetActingUnit(ctx context.Context, userID, unitID string) error
}

// Resolver computes visible units and the acting context for a caller.
type Resolver struct {
	units    UnitSource
	policy   policy.Evaluator
	cache    TreeCache
	sessions SessionStore
	sorter   *textsort.Sorter
	ttl      time.Duration
	logger   *zap.Logger
}

// NewResolver builds a Resolver. cache and sessions may be nil: descendant
// lists are then recomputed on each call and the acting unit always starts
// at the home unit.
func NewResolver(
	units UnitSource,
	pol policy.Evaluator,
	cache TreeCache,
	sessions SessionStore,
	sorter *textsort.Sorter,
	ttl time.Duration,
	logger *zap.Logger,
) *Resolver {
	if cache == nil {
		cache = noopCache{}
	}
	if sessions == nil {
		sessions = noopSessions{}
	}
	if sorter == nil {
		sorter = textsort.New("pt-BR")
	}
	return &Resolver{
		units:    units,
		policy:   pol,
		cache:    cache,
		sessions: sessions,
		sorter:   sorter,
		ttl:      ttl,
		logger:   logger,
	}
}

// ── visible set ──

// view home unit plus whatever part of the tree the caller may see
type view struct {
	tree    *Tree
	visible []string // home first, then descendants in BFS order
}

func toNodes(units []model.Unit) []Node {
	nodes := make([]Node, 0, len(units))
	for _, u := range units {
		n := Node{ID: u.UnitID, Name: u.Name}
		if u.ParentID != nil {
			n.ParentID = *u.ParentID
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// load returns nil when the home unit does not exist.
func (r *Resolver) load(ctx context.Context, homeID string, canDescend bool) (*view, error) {
	if homeID == "" {
		return nil, nil
	}

	if !canDescend {
		units, err := r.units.ListByIDs(ctx, []string{homeID})
		if err != nil {
			return nil, err
		}
		tree := NewTree(toNodes(units))
		if !tree.Contains(homeID) {
			return nil, nil
		}
		return &view{tree: tree, visible: []string{homeID}}, nil
	}

	desc, gen, hit, err := r.cache.GetDescendants(ctx, homeID)
	cacheable := err == nil
	if err != nil {
		r.logger.Warn("unit tree cache read failed", zap.String("unit_id", homeID), zap.Error(err))
	} else if hit {
		ids := append([]string{homeID}, desc...)
		units, err := r.units.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		tree := NewTree(toNodes(units))
		if !tree.Contains(homeID) {
			return nil, nil
		}
		visible := make([]string, 0, len(ids))
		for _, id := range ids {
			if tree.Contains(id) {
				visible = append(visible, id)
			}
		}
		return &view{tree: tree, visible: visible}, nil
	}

	units, err := r.units.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	tree := NewTree(toNodes(units))
	if !tree.Contains(homeID) {
		return nil, nil
	}
	desc = tree.Descendants(homeID)
	if cacheable {
		if err := r.cache.SetDescendants(ctx, gen, homeID, desc, r.ttl); err != nil {
			r.logger.Warn("unit tree cache write failed", zap.String("unit_id", homeID), zap.Error(err))
		}
	}
	return &view{tree: tree, visible: append([]string{homeID}, desc...)}, nil
}

func (r *Resolver) sortedRefs(tree *Tree, ids []string) []UnitRef {
	refs := make([]UnitRef, 0, len(ids))
	for _, id := range ids {
		if n, ok := tree.Node(id); ok {
			refs = append(refs, UnitRef{ID: n.ID, Name: n.Name})
		}
	}
	r.sorter.Sort(refs,
		func(i int) string { return refs[i].Name },
		func(i int) string { return refs[i].ID },
	)
	return refs
}

// VisibleUnits {home} or {home} ∪ descendants(home), ordered by name.
// A missing home unit yields an empty list.
func (r *Resolver) VisibleUnits(ctx context.Context, homeID string, canDescend bool) ([]UnitRef, error) {
	v, err := r.load(ctx, homeID, canDescend)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []UnitRef{}, nil
	}
	return r.sortedRefs(v.tree, v.visible), nil
}

// ── acting context ──

// Resolve builds the acting context for p. A stored acting unit that is no
// longer visible falls back to the home unit, and the fallback is persisted.
func (r *Resolver) Resolve(ctx context.Context, p Principal) (*ActingContext, error) {
	stored, err := r.sessions.GetActingUnit(ctx, p.UserID)
	if err != nil {
		r.logger.Warn("read acting unit failed", zap.String("user_id", p.UserID), zap.Error(err))
		stored = ""
	}
	return r.build(ctx, p, stored, true)
}

// SwitchActingUnit makes unitID the caller's acting unit.
func (r *Resolver) SwitchActingUnit(ctx context.Context, p Principal, unitID string) (*ActingContext, error) {
	ac, err := r.build(ctx, p, unitID, false)
	if err != nil {
		return nil, err
	}
	if ac.ActingUnitID != unitID {
		return nil, ErrUnitNotVisible
	}
	if err := r.sessions.SetActingUnit(ctx, p.UserID, unitID); err != nil {
		r.logger.Error("persist acting unit failed", zap.String("user_id", p.UserID), zap.Error(err))
		return nil, err
	}
	return ac, nil
}

func (r *Resolver) build(ctx context.Context, p Principal, requested string, persistFallback bool) (*ActingContext, error) {
	canDescend := r.policy.Can(p.Role, policy.CapActOnDescendants)
	ac := &ActingContext{
		UserID:              p.UserID,
		Role:                p.Role,
		CanActOnDescendants: canDescend,
		Capabilities:        r.policy.Capabilities(p.Role),
		Visible:             []UnitRef{},
		Units:               Of(),
		Subtree:             Of(),
	}

	v, err := r.load(ctx, p.HomeUnitID, canDescend)
	if err != nil {
		r.logger.Error("load unit tree failed", zap.String("home_unit_id", p.HomeUnitID), zap.Error(err))
		return nil, err
	}
	if v == nil {
		return ac, nil
	}

	ac.HomeUnitID = p.HomeUnitID
	ac.Visible = r.sortedRefs(v.tree, v.visible)

	acting := p.HomeUnitID
	for _, id := range v.visible {
		if id == requested {
			acting = requested
			break
		}
	}
	if persistFallback && acting != requested {
		if err := r.sessions.SetActingUnit(ctx, p.UserID, acting); err != nil {
			r.logger.Warn("persist acting unit fallback failed", zap.String("user_id", p.UserID), zap.Error(err))
		}
	}

	ac.ActingUnitID = acting
	if n, ok := v.tree.Node(acting); ok {
		ac.ActingUnitName = n.Name
	}
	ac.Units = Of(acting)
	if canDescend {
		ac.Subtree = Of(append([]string{acting}, v.tree.Descendants(acting)...)...)
	} else {
		ac.Subtree = ac.Units
	}
	return ac, nil
}

// Invalidate drops cached descendant lists after the unit tree changes.
func (r *Resolver) Invalidate(ctx context.Context) {
	if err := r.cache.InvalidateUnitTree(ctx); err != nil {
		r.logger.Warn("unit tree cache invalidation failed", zap.Error(err))
	}
}

// ── fallbacks when Redis is unavailable ──

type noopCache struct{}

func (noopCache) GetDescendants(context.Context, string) ([]string, int64, bool, error) {
	return nil, 0, false, nil
}
func (noopCache) SetDescendants(context.Context, int64, string, []string, time.Duration) error {
	return nil
}
func (noopCache) InvalidateUnitTree(context.Context) error { return nil }

type noopSessions struct{}

func (noopSessions) GetActingUnit(context.Context, string) (string, error) { return "", nil }
func (noopSessions) SetActingUnit(context.Context, string, string) error   { return nil }
