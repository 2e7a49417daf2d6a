package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RosterHandler duty rosters of the acting unit
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates a RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// Preview computes windows, assignments and conflicts without saving
// POST /api/v1/rosters/preview
func (h *RosterHandler) Preview(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RosterRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := h.rosterSvc.Preview(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, preview)
}

// CreateRoster commits a roster
// POST /api/v1/rosters
func (h *RosterHandler) CreateRoster(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RosterRequest
	if !bindJSON(c, &req) {
		return
	}

	roster, err := h.rosterSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.Created(c, roster)
}

// ListRosters GET /api/v1/rosters
func (h *RosterHandler) ListRosters(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RosterListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.rosterSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRoster GET /api/v1/rosters/:id
func (h *RosterHandler) GetRoster(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	roster, err := h.rosterSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, roster)
}

// DeleteRoster DELETE /api/v1/rosters/:id
func (h *RosterHandler) DeleteRoster(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	if err := h.rosterSvc.Delete(c.Request.Context(), ac, c.Param("id")); err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, nil)
}

// Feed calendar windows between two dates
// GET /api/v1/rosters/feed?start=...&end=...
func (h *RosterHandler) Feed(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RosterFeedRequest
	if !bindQuery(c, &req) {
		return
	}

	windows, err := h.rosterSvc.Feed(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, windows)
}

// Export downloads the roster as a spreadsheet
// GET /api/v1/rosters/:id/export
func (h *RosterHandler) Export(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	buf, filename, err := h.rosterSvc.Export(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ── draft ──

// GetDraft GET /api/v1/rosters/draft
func (h *RosterHandler) GetDraft(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	draft, err := h.rosterSvc.GetDraft(c.Request.Context(), ac)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, draft)
}

// SaveDraft PUT /api/v1/rosters/draft
func (h *RosterHandler) SaveDraft(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var draft dto.RosterDraft
	if !bindJSON(c, &draft) {
		return
	}

	if err := h.rosterSvc.SaveDraft(c.Request.Context(), ac, &draft); err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, draft)
}

// ClearDraft DELETE /api/v1/rosters/draft
func (h *RosterHandler) ClearDraft(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	if err := h.rosterSvc.ClearDraft(c.Request.Context(), ac); err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, nil)
}

// Conflict responses carry the offending rosters or rest periods and the
// submitted draft, so the client can restore the builder.
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	var rosterConflict *service.RosterConflictError
	var restConflict *service.RestConflictError
	switch {
	case errors.As(err, &rosterConflict):
		response.ErrorWithData(c, http.StatusConflict, 17002, rosterConflict.Error(), rosterConflict)
	case errors.As(err, &restConflict):
		response.ErrorWithData(c, http.StatusConflict, 17003, restConflict.Error(), restConflict)
	case errors.Is(err, service.ErrRosterRaceDetected):
		response.Conflict(c, 17004, service.ErrRosterRaceDetected.Error())
	case errors.Is(err, service.ErrRosterNotFound):
		response.NotFound(c, 17001, "roster not found")
	case errors.Is(err, service.ErrRosterDeleteDenied):
		response.Forbidden(c, 17005, service.ErrRosterDeleteDenied.Error())
	case errors.Is(err, service.ErrRosterDraftNotFound):
		response.NotFound(c, 17006, service.ErrRosterDraftNotFound.Error())
	case errors.Is(err, service.ErrRosterExportFailed):
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
