package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/middleware"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = dto.RegisterValidators(v)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult  *dto.TokenResponse
	loginErr     error
	logoutClaims *jwt.Claims
	logoutErr    error
	meResult     *dto.MeResponse
	meErr        error
	switchResult *dto.ActingUnitResponse
	switchErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.logoutClaims = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ *scope.ActingContext) (*dto.MeResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) Context(ac *scope.ActingContext) dto.ActingUnitResponse {
	return dto.ActingUnitResponse{HomeUnitID: ac.HomeUnitID, Units: []scope.UnitRef{}, Capabilities: []string{}}
}
func (m *mockAuthService) SwitchUnit(_ context.Context, _ *scope.ActingContext, _ *dto.SwitchUnitRequest) (*dto.ActingUnitResponse, error) {
	return m.switchResult, m.switchErr
}

// ── Mock UnitService ──

type mockUnitService struct {
	listResult []dto.UnitResponse
	deleteErr  error
	updateErr  error
}

func (m *mockUnitService) List(_ context.Context, _ *scope.ActingContext) ([]dto.UnitResponse, error) {
	return m.listResult, nil
}
func (m *mockUnitService) Get(_ context.Context, _ *scope.ActingContext, _ string) (*dto.UnitResponse, error) {
	return nil, service.ErrUnitNotFound
}
func (m *mockUnitService) Create(_ context.Context, _ *scope.ActingContext, _ *dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	return &dto.UnitResponse{}, nil
}
func (m *mockUnitService) Update(_ context.Context, _ *scope.ActingContext, _ string, _ *dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	return &dto.UnitResponse{}, m.updateErr
}
func (m *mockUnitService) Delete(_ context.Context, _ *scope.ActingContext, _ string) error {
	return m.deleteErr
}

// ── Mock StaffService ──

type mockStaffService struct {
	listResult []dto.StaffResponse
	listTotal  int64
	listReq    *dto.StaffListRequest
	createErr  error
}

func (m *mockStaffService) List(_ context.Context, _ *scope.ActingContext, req *dto.StaffListRequest) ([]dto.StaffResponse, int64, error) {
	m.listReq = req
	return m.listResult, m.listTotal, nil
}
func (m *mockStaffService) Get(_ context.Context, _ *scope.ActingContext, _ string) (*dto.StaffResponse, error) {
	return nil, service.ErrStaffNotFound
}
func (m *mockStaffService) Create(_ context.Context, _ *scope.ActingContext, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &dto.StaffResponse{ID: "st-1", Name: req.Name, IsActive: true}, nil
}
func (m *mockStaffService) Update(_ context.Context, _ *scope.ActingContext, _ string, _ *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	return nil, service.ErrStaffNotFound
}
func (m *mockStaffService) ToggleActive(_ context.Context, _ *scope.ActingContext, _ string) (*dto.StaffResponse, error) {
	return nil, service.ErrNoActingUnit
}

// ── Mock RestPeriodService ──

type mockRestPeriodService struct {
	createErr   error
	checkResult *dto.RestCheckResponse
	checkReq    *dto.RestCheckRequest
}

func (m *mockRestPeriodService) List(_ context.Context, _ *scope.ActingContext, _ *dto.RestPeriodListRequest) ([]dto.RestPeriodResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockRestPeriodService) Create(_ context.Context, _ *scope.ActingContext, _ *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error) {
	return &dto.RestPeriodResponse{}, m.createErr
}
func (m *mockRestPeriodService) Update(_ context.Context, _ *scope.ActingContext, _ string, _ *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error) {
	return nil, service.ErrRestPeriodNotFound
}
func (m *mockRestPeriodService) Delete(_ context.Context, _ *scope.ActingContext, _ string) error {
	return nil
}
func (m *mockRestPeriodService) Check(_ context.Context, _ *scope.ActingContext, req *dto.RestCheckRequest) (*dto.RestCheckResponse, error) {
	m.checkReq = req
	return m.checkResult, nil
}

// ── Mock RosterService ──

type mockRosterService struct {
	previewResult *dto.RosterPreviewResponse
	createResult  *dto.RosterResponse
	createErr     error
	deleteErr     error
	exportBuf     *bytes.Buffer
	exportName    string
	exportErr     error
	draft         *dto.RosterDraft
	draftErr      error
}

func (m *mockRosterService) Preview(_ context.Context, _ *scope.ActingContext, _ *dto.RosterRequest) (*dto.RosterPreviewResponse, error) {
	return m.previewResult, nil
}
func (m *mockRosterService) Create(_ context.Context, _ *scope.ActingContext, _ *dto.RosterRequest) (*dto.RosterResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockRosterService) Get(_ context.Context, _ *scope.ActingContext, _ string) (*dto.RosterResponse, error) {
	return nil, service.ErrRosterNotFound
}
func (m *mockRosterService) List(_ context.Context, _ *scope.ActingContext, _ *dto.RosterListRequest) ([]dto.RosterResponse, int64, error) {
	return []dto.RosterResponse{}, 0, nil
}
func (m *mockRosterService) Delete(_ context.Context, _ *scope.ActingContext, _ string) error {
	return m.deleteErr
}
func (m *mockRosterService) Feed(_ context.Context, _ *scope.ActingContext, _ *dto.RosterFeedRequest) ([]dto.FeedWindow, error) {
	return []dto.FeedWindow{}, nil
}
func (m *mockRosterService) Export(_ context.Context, _ *scope.ActingContext, _ string) (*bytes.Buffer, string, error) {
	return m.exportBuf, m.exportName, m.exportErr
}
func (m *mockRosterService) SaveDraft(_ context.Context, _ *scope.ActingContext, draft *dto.RosterDraft) error {
	m.draft = draft
	return m.draftErr
}
func (m *mockRosterService) GetDraft(_ context.Context, _ *scope.ActingContext) (*dto.RosterDraft, error) {
	if m.draft == nil {
		return nil, service.ErrRosterDraftNotFound
	}
	return m.draft, nil
}
func (m *mockRosterService) ClearDraft(_ context.Context, _ *scope.ActingContext) error {
	m.draft = nil
	return nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const (
	testUnitID  = "6f1c2b1e-9a1d-4c55-8d0e-0a4a1b2c3d4e"
	testStaffID = "0b7e8c1a-2f3d-4e5f-9a8b-7c6d5e4f3a2b"
)

func testActing() *scope.ActingContext {
	return &scope.ActingContext{
		UserID:       "test-user-id",
		Role:         "supervisor",
		HomeUnitID:   testUnitID,
		ActingUnitID: testUnitID,
		Units:        scope.Of(testUnitID),
		Subtree:      scope.Of(testUnitID),
	}
}

// withActing installs the acting context the way middleware.ActingUnit does
func withActing(ac *scope.ActingContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActingKey, ac)
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// dataMap decodes the data field of the envelope
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env.Data
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 900}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "ana", Password: "senha-forte-1"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if dataMap(t, w)["access_token"] != "test-access-token" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "malformed request" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(map[string]string{"username": "ana"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	fields, _ := dataMap(t, w)["fields"].(map[string]any)
	if fields["password"] != "is required" {
		t.Errorf("expected password to be reported by its json name, got %v", fields)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "ana", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_UsesClaims(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	claims := &jwt.Claims{UserID: "test-user-id"}
	claims.ID = "jti-1"

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	}, h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutClaims == nil || mock.logoutClaims.ID != "jti-1" {
		t.Errorf("expected the request claims to reach the service, got %+v", mock.logoutClaims)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_SwitchUnit_NotVisible(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{switchErr: scope.ErrUnitNotVisible})

	r := gin.New()
	r.PUT("/me/acting-unit", withActing(testActing()), h.SwitchUnit)
	w := serve(r, "PUT", "/me/acting-unit", jsonBody(dto.SwitchUnitRequest{UnitID: testUnitID}))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_Units(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/me/units", withActing(testActing()), h.Units)
	w := serve(r, "GET", "/me/units", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"units":[]`) {
		t.Errorf("expected an empty units array, got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// UnitHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUnitHandler_Delete_InUse(t *testing.T) {
	inUse := &service.UnitInUseError{Dependents: map[string]int64{"staff": 3, "rosters": 1}}
	h := NewUnitHandler(&mockUnitService{deleteErr: inUse})

	r := gin.New()
	r.DELETE("/units/:id", withActing(testActing()), h.DeleteUnit)
	w := serve(r, "DELETE", "/units/"+testUnitID, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10008 {
		t.Errorf("expected error code 10008, got %d", resp.Code)
	}
	deps, _ := dataMap(t, w)["dependents"].(map[string]any)
	if deps["staff"] != float64(3) {
		t.Errorf("expected dependents in the body, got %v", deps)
	}
}

func TestUnitHandler_Update_Cycle(t *testing.T) {
	h := NewUnitHandler(&mockUnitService{updateErr: service.ErrUnitCycle})

	r := gin.New()
	r.PUT("/units/:id", withActing(testActing()), h.UpdateUnit)
	w := serve(r, "PUT", "/units/"+testUnitID, jsonBody(map[string]any{"name": "Regional", "version": 1}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestUnitHandler_Get_NotFound(t *testing.T) {
	h := NewUnitHandler(&mockUnitService{})

	r := gin.New()
	r.GET("/units/:id", withActing(testActing()), h.GetUnit)
	w := serve(r, "GET", "/units/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Staff / RestPeriod Tests
// ═══════════════════════════════════════════════════════════

func TestStaffHandler_List_Pagination(t *testing.T) {
	mock := &mockStaffService{
		listResult: []dto.StaffResponse{{ID: "st-1", Name: "Ana"}},
		listTotal:  41,
	}
	h := NewStaffHandler(mock)

	r := gin.New()
	r.GET("/staff", withActing(testActing()), h.ListStaff)
	w := serve(r, "GET", "/staff?page=3&page_size=20&active=true", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.listReq == nil || mock.listReq.Active == nil || !*mock.listReq.Active {
		t.Errorf("expected the active filter to be bound, got %+v", mock.listReq)
	}
	pagination, _ := dataMap(t, w)["pagination"].(map[string]any)
	if pagination["total"] != float64(41) || pagination["page"] != float64(3) {
		t.Errorf("unexpected pagination: %v", pagination)
	}
}

func TestStaffHandler_Create_ValidationError(t *testing.T) {
	mock := &mockStaffService{createErr: service.NewValidationError("phone", "already used by Ana")}
	h := NewStaffHandler(mock)

	r := gin.New()
	r.POST("/staff", withActing(testActing()), h.CreateStaff)
	w := serve(r, "POST", "/staff", jsonBody(dto.CreateStaffRequest{Name: "Bruno Lima", Phone: "69999990000"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
	fields, _ := dataMap(t, w)["fields"].(map[string]any)
	if fields["phone"] != "already used by Ana" {
		t.Errorf("expected the phone field error, got %v", fields)
	}
}

func TestStaffHandler_Toggle_NoActingUnit(t *testing.T) {
	h := NewStaffHandler(&mockStaffService{})

	r := gin.New()
	r.POST("/staff/:id/toggle-active", withActing(&scope.ActingContext{UserID: "u"}), h.ToggleStaff)
	w := serve(r, "POST", "/staff/st-1/toggle-active", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10006 {
		t.Errorf("expected error code 10006, got %d", resp.Code)
	}
}

func TestRestPeriodHandler_Create_Overlap(t *testing.T) {
	overlap := &service.RestOverlapError{Periods: []service.OverlappingRest{
		{RestPeriodID: "rp-1", Category: "vacation", Period: "2024-07-01 to 2024-07-10"},
	}}
	h := NewRestPeriodHandler(&mockRestPeriodService{createErr: overlap})

	r := gin.New()
	r.POST("/rest-periods", withActing(testActing()), h.CreateRestPeriod)
	w := serve(r, "POST", "/rest-periods", jsonBody(map[string]any{
		"staff_id":   testStaffID,
		"category":   "vacation",
		"start_date": "2024-07-05",
		"end_date":   "2024-07-12",
	}))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != 16002 {
		t.Errorf("expected error code 16002, got %d", resp.Code)
	}
	if !strings.Contains(w.Body.String(), "2024-07-01 to 2024-07-10") {
		t.Errorf("expected the overlapping period in the body, got %s", w.Body.String())
	}
}

func TestRestPeriodHandler_Check_QueryNames(t *testing.T) {
	mock := &mockRestPeriodService{checkResult: &dto.RestCheckResponse{Periods: []dto.RestCheckPeriod{}}}
	h := NewRestPeriodHandler(mock)

	r := gin.New()
	r.GET("/rest-periods/check", withActing(testActing()), h.CheckRestPeriods)

	w := serve(r, "GET", "/rest-periods/check?servidor_id="+testStaffID+"&inicio=2024-07-01&fim=2024-07-07", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.checkReq.Start != "2024-07-01" || mock.checkReq.End != "2024-07-07" {
		t.Errorf("unexpected bound request: %+v", mock.checkReq)
	}

	w = serve(r, "GET", "/rest-periods/check?servidor_id="+testStaffID+"&inicio=01/07/2024&fim=2024-07-07", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	fields, _ := dataMap(t, w)["fields"].(map[string]any)
	if fields["inicio"] == nil {
		t.Errorf("expected inicio to be reported, got %v", fields)
	}
}

// ═══════════════════════════════════════════════════════════
// RosterHandler Tests
// ═══════════════════════════════════════════════════════════

func rosterRequest() dto.RosterRequest {
	return dto.RosterRequest{Start: "2024-05-04", End: "2024-05-17"}
}

func TestRosterHandler_Create_Success(t *testing.T) {
	mock := &mockRosterService{createResult: &dto.RosterResponse{ID: "ros-1", Start: "2024-05-04", End: "2024-05-17"}}
	h := NewRosterHandler(mock)

	r := gin.New()
	r.POST("/rosters", withActing(testActing()), h.CreateRoster)
	w := serve(r, "POST", "/rosters", jsonBody(rosterRequest()))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if dataMap(t, w)["id"] != "ros-1" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRosterHandler_Create_BadDates(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{})

	r := gin.New()
	r.POST("/rosters", withActing(testActing()), h.CreateRoster)
	w := serve(r, "POST", "/rosters", jsonBody(map[string]string{"start": "2024-05-04", "end": "17/05/2024"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	fields, _ := dataMap(t, w)["fields"].(map[string]any)
	if fields["end"] != "must be a date in YYYY-MM-DD format" {
		t.Errorf("unexpected field errors: %v", fields)
	}
}

func TestRosterHandler_Create_Conflicts(t *testing.T) {
	draft := &dto.RosterDraft{Start: "2024-05-04", End: "2024-05-17"}
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name: "overlapping roster",
			err: &service.RosterConflictError{
				Rosters: []service.OverlappingRoster{{RosterID: "ros-0", Start: "2024-05-11", End: "2024-05-24", Period: "2024-05-11 to 2024-05-24"}},
				Draft:   draft,
			},
			wantCode: 17002,
			wantBody: "ros-0",
		},
		{
			name: "staff on rest",
			err: &service.RestConflictError{
				Windows: []service.WindowRestConflicts{{Window: 1, Period: "2024-05-04 to 2024-05-10"}},
				Draft:   draft,
			},
			wantCode: 17003,
			wantBody: `"window":1`,
		},
		{
			name:     "race",
			err:      service.ErrRosterRaceDetected,
			wantCode: 17004,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRosterHandler(&mockRosterService{createErr: tc.err})

			r := gin.New()
			r.POST("/rosters", withActing(testActing()), h.CreateRoster)
			w := serve(r, "POST", "/rosters", jsonBody(rosterRequest()))

			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", w.Code)
			}
			if resp := parseResponse(w); resp.Code != tc.wantCode {
				t.Errorf("expected error code %d, got %d", tc.wantCode, resp.Code)
			}
			if tc.wantBody != "" {
				body := w.Body.String()
				if !strings.Contains(body, tc.wantBody) || !strings.Contains(body, `"draft"`) {
					t.Errorf("expected conflict details and the draft, got %s", body)
				}
			}
		})
	}
}

func TestRosterHandler_Delete_Denied(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{deleteErr: service.ErrRosterDeleteDenied})

	r := gin.New()
	r.DELETE("/rosters/:id", withActing(testActing()), h.DeleteRoster)
	w := serve(r, "DELETE", "/rosters/ros-1", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRosterHandler_Export(t *testing.T) {
	mock := &mockRosterService{
		exportBuf:  bytes.NewBufferString("xlsx-bytes"),
		exportName: "escala 2024-05-04.xlsx",
	}
	h := NewRosterHandler(mock)

	r := gin.New()
	r.GET("/rosters/:id/export", withActing(testActing()), h.Export)
	w := serve(r, "GET", "/rosters/ros-1/export", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "escala+2024-05-04.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}

	mock.exportErr = service.ErrRosterExportFailed
	w = serve(r, "GET", "/rosters/ros-1/export", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestRosterHandler_DraftLifecycle(t *testing.T) {
	mock := &mockRosterService{}
	h := NewRosterHandler(mock)

	r := gin.New()
	draft := r.Group("/rosters/draft", withActing(testActing()))
	draft.GET("", h.GetDraft)
	draft.PUT("", h.SaveDraft)
	draft.DELETE("", h.ClearDraft)

	if w := serve(r, "GET", "/rosters/draft", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a draft, got %d", w.Code)
	}
	if w := serve(r, "PUT", "/rosters/draft", jsonBody(dto.RosterDraft{Start: "2024-05-04"})); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w := serve(r, "GET", "/rosters/draft", nil)
	if w.Code != http.StatusOK || dataMap(t, w)["start"] != "2024-05-04" {
		t.Errorf("expected the saved draft, got %d %s", w.Code, w.Body.String())
	}
	if w := serve(r, "DELETE", "/rosters/draft", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.draft != nil {
		t.Error("draft should be cleared")
	}
}
