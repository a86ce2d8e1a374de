package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/api/middleware"
	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

var executive = domain.Identity{UserID: "u1", Role: domain.RoleSalesExecutive, OrganizationID: "org1"}

// newContext builds an echo context carrying identity (when non-nil) and an
// optional JSON body.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, *identity)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ── lead service stub ────────────────────────────────────────────────────────

type stubLeadService struct {
	ports.LeadService

	filter    ports.LeadFilter
	created   *domain.Lead
	key       string
	replay    bool
	patch     domain.LeadPatch
	converted domain.ConversionTarget
	err       error
}

func (s *stubLeadService) List(_ context.Context, _ domain.Identity, f ports.LeadFilter) (*ports.Page[*domain.Lead], error) {
	s.filter = f
	if s.err != nil {
		return nil, s.err
	}
	p := f.Pagination.Normalize()
	return ports.NewPage([]*domain.Lead{{ID: "l1"}}, 41, p), nil
}

func (s *stubLeadService) Create(_ context.Context, _ domain.Identity, l *domain.Lead, key string) (*ports.CreateResult[*domain.Lead], error) {
	s.created, s.key = l, key
	if s.err != nil {
		return nil, s.err
	}
	l.ID = "l1"
	return &ports.CreateResult[*domain.Lead]{Record: l, Replayed: s.replay}, nil
}

func (s *stubLeadService) Update(_ context.Context, _ domain.Identity, id string, p domain.LeadPatch) (*domain.Lead, error) {
	s.patch = p
	return &domain.Lead{ID: id}, s.err
}

func (s *stubLeadService) Convert(_ context.Context, _ domain.Identity, id string, target domain.ConversionTarget) (*domain.Lead, error) {
	s.converted = target
	return &domain.Lead{ID: id, Status: domain.LeadQualified}, nil
}

func TestLeadHandler_ListParsesQuery(t *testing.T) {
	svc := &stubLeadService{}
	c, rec := newContext(http.MethodGet, "/api/leads?status=New&search=acme&assignedTo=u9&page=3&limit=20", "", &executive)

	if err := NewLeadHandler(svc).List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.filter.Status != "New" || svc.filter.Search != "acme" || svc.filter.AssignedTo != "u9" {
		t.Errorf("unexpected filter %+v", svc.filter)
	}
	if svc.filter.Page != 3 || svc.filter.Limit != 20 {
		t.Errorf("unexpected pagination %+v", svc.filter.Pagination)
	}

	var body Envelope
	decode(t, rec, &body)
	if !body.Success || body.Pagination == nil {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Pagination.Total != 41 || body.Pagination.Pages != 3 {
		t.Errorf("unexpected pagination %+v", *body.Pagination)
	}
	if body.Count == nil || *body.Count != 1 {
		t.Errorf("expected count 1")
	}
}

func TestLeadHandler_ListRejectsBadPage(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/leads?page=abc", "", &executive)

	err := NewLeadHandler(&stubLeadService{}).List(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeadHandler_RequiresIdentity(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/leads", "", nil)

	err := NewLeadHandler(&stubLeadService{}).List(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLeadHandler_Create(t *testing.T) {
	svc := &stubLeadService{}
	c, rec := newContext(http.MethodPost, "/api/leads", `{"name":"Ada","email":"ada@example.com","source":"Referral"}`, &executive)
	c.Request().Header.Set(HeaderIdempotencyKey, "k-1")

	if err := NewLeadHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.key != "k-1" {
		t.Errorf("idempotency key not forwarded, got %q", svc.key)
	}
	if svc.created.Name != "Ada" || svc.created.Source != "Referral" {
		t.Errorf("unexpected lead %+v", svc.created)
	}
	if rec.Header().Get(HeaderReplayed) != "" {
		t.Error("fresh create must not be marked replayed")
	}
}

func TestLeadHandler_CreateReplay(t *testing.T) {
	svc := &stubLeadService{replay: true}
	c, rec := newContext(http.MethodPost, "/api/leads", `{"name":"Ada","email":"ada@example.com"}`, &executive)

	if err := NewLeadHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(HeaderReplayed) != "true" {
		t.Error("expected replay header")
	}
}

func TestLeadHandler_CreateValidation(t *testing.T) {
	tests := map[string]string{
		"missing name":  `{"email":"ada@example.com"}`,
		"invalid email": `{"name":"Ada","email":"nope"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &stubLeadService{}
			c, _ := newContext(http.MethodPost, "/api/leads", body, &executive)

			err := NewLeadHandler(svc).Create(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if svc.created != nil {
				t.Error("service must not be called")
			}
		})
	}
}

func TestLeadHandler_CreateMalformedBody(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/leads", `{"name":`, &executive)

	err := NewLeadHandler(&stubLeadService{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestLeadHandler_UpdateSendsOnlyPresentFields(t *testing.T) {
	svc := &stubLeadService{}
	c, _ := newContext(http.MethodPut, "/api/leads/l1", `{"status":"Contacted","notes":""}`, &executive)
	c.SetParamNames("id")
	c.SetParamValues("l1")

	if err := NewLeadHandler(svc).Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.patch.Status == nil || *svc.patch.Status != domain.LeadContacted {
		t.Errorf("expected status patch, got %+v", svc.patch.Status)
	}
	if svc.patch.Notes == nil || *svc.patch.Notes != "" {
		t.Error("explicit empty notes must be kept")
	}
	if svc.patch.Name != nil || svc.patch.Email != nil || svc.patch.AssignedTo != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestLeadHandler_Convert(t *testing.T) {
	svc := &stubLeadService{}
	c, _ := newContext(http.MethodPost, "/api/leads/l1/convert", `{"convertTo":"deal"}`, &executive)
	c.SetParamNames("id")
	c.SetParamValues("l1")

	if err := NewLeadHandler(svc).Convert(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.converted != domain.ConvertToDeal {
		t.Errorf("expected deal, got %q", svc.converted)
	}

	c, _ = newContext(http.MethodPost, "/api/leads/l1/convert", `{"convertTo":"account"}`, &executive)
	if err := NewLeadHandler(svc).Convert(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ── deal service stub ────────────────────────────────────────────────────────

type stubDealService struct {
	ports.DealService
	created *domain.Deal
}

func (s *stubDealService) Create(_ context.Context, _ domain.Identity, d *domain.Deal, _ string) (*ports.CreateResult[*domain.Deal], error) {
	s.created = d
	return &ports.CreateResult[*domain.Deal]{Record: d}, nil
}

func TestDealHandler_CreateProbability(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"absent takes default", `{"dealName":"Big","value":100,"expectedCloseDate":"2026-12-01T00:00:00Z"}`, domain.DefaultDealProbability},
		{"explicit zero kept", `{"dealName":"Big","value":100,"expectedCloseDate":"2026-12-01T00:00:00Z","probability":0}`, 0},
		{"explicit value kept", `{"dealName":"Big","value":100,"expectedCloseDate":"2026-12-01T00:00:00Z","probability":80}`, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubDealService{}
			c, rec := newContext(http.MethodPost, "/api/deals", tt.body, &executive)

			if err := NewDealHandler(svc).Create(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
			if svc.created.Probability != tt.want {
				t.Errorf("expected probability %d, got %d", tt.want, svc.created.Probability)
			}
		})
	}
}

func TestDealHandler_CreateRejectsNegativeValue(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/deals", `{"dealName":"Big","value":-1,"expectedCloseDate":"2026-12-01T00:00:00Z"}`, &executive)

	if err := NewDealHandler(&stubDealService{}).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ── activity service stub ────────────────────────────────────────────────────

type stubActivityService struct {
	ports.ActivityService
	filter ports.ActivityFilter
}

func (s *stubActivityService) List(_ context.Context, _ domain.Identity, f ports.ActivityFilter) (*ports.Page[*domain.Activity], error) {
	s.filter = f
	return ports.NewPage[*domain.Activity](nil, 0, f.Pagination.Normalize()), nil
}

func TestActivityHandler_ListDueDate(t *testing.T) {
	svc := &stubActivityService{}
	c, _ := newContext(http.MethodGet, "/api/activities?dueDate=2026-03-04&priority=High", "", &executive)

	if err := NewActivityHandler(svc).List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.filter.DueDate.Format("2006-01-02"); got != "2026-03-04" {
		t.Errorf("expected 2026-03-04, got %s", got)
	}
	if svc.filter.Priority != "High" {
		t.Errorf("expected High, got %q", svc.filter.Priority)
	}

	c, _ = newContext(http.MethodGet, "/api/activities?dueDate=tomorrow", "", &executive)
	if err := NewActivityHandler(svc).List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ── user service stub ────────────────────────────────────────────────────────

type stubUserService struct {
	ports.UserService
	input ports.CreateUserInput
	patch domain.UserPatch
}

func (s *stubUserService) Create(_ context.Context, _ domain.Identity, in ports.CreateUserInput) (*domain.User, error) {
	s.input = in
	return &domain.User{ID: "u9", Name: in.Name, Email: in.Email, Role: domain.RoleSalesExecutive, PasswordHash: "hash"}, nil
}

func (s *stubUserService) Update(_ context.Context, _ domain.Identity, id string, p domain.UserPatch) (*domain.User, error) {
	s.patch = p
	return &domain.User{ID: id}, nil
}

func TestUserHandler_CreateNeverExposesHash(t *testing.T) {
	svc := &stubUserService{}
	manager := domain.Identity{UserID: "m1", Role: domain.RoleSalesManager}
	c, rec := newContext(http.MethodPost, "/api/users", `{"name":"Bob","email":"bob@example.com","password":"secret1"}`, &manager)

	if err := NewUserHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") || strings.Contains(rec.Body.String(), "secret1") {
		t.Errorf("credential leaked: %s", rec.Body.String())
	}
	if svc.input.Role != "" {
		t.Errorf("absent role must stay empty, got %q", svc.input.Role)
	}
}

func TestUserHandler_UpdateCarriesRole(t *testing.T) {
	svc := &stubUserService{}
	admin := domain.Identity{UserID: "a1", Role: domain.RoleAdmin}
	c, _ := newContext(http.MethodPut, "/api/users/u2", `{"role":"Sales Manager"}`, &admin)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := NewUserHandler(svc).Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.patch.Role == nil || *svc.patch.Role != domain.RoleSalesManager {
		t.Errorf("expected role patch, got %+v", svc.patch.Role)
	}
}

// ── auth service stub ────────────────────────────────────────────────────────

type stubAuthService struct {
	ports.AuthService
	in ports.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	s.in = in
	return &ports.AuthResult{Token: "tok", User: &domain.User{ID: "u1", Email: in.Email, Role: domain.RoleCustomer}}, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{}
	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"name":"Cy","email":"cy@example.com","password":"secret1"}`, nil)

	if err := NewAuthHandler(svc).Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body authResponse
	decode(t, rec, &body)
	if !body.Success || body.Token != "tok" || body.User == nil {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestAuthHandler_RegisterShortPassword(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"name":"Cy","email":"cy@example.com","password":"123"}`, nil)

	if err := NewAuthHandler(&stubAuthService{}).Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_LoginPropagatesError(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"email":"cy@example.com","password":"wrong"}`, nil)

	if err := NewAuthHandler(&stubAuthService{}).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ── report service stub ──────────────────────────────────────────────────────

type stubReportService struct {
	ports.ReportService
	in ports.ReportInput
}

func (s *stubReportService) SalesPerformance(_ context.Context, _ domain.Identity, in ports.ReportInput) ([]domain.SalesPerformance, error) {
	s.in = in
	return nil, nil
}

func TestReportHandler_DateRange(t *testing.T) {
	svc := &stubReportService{}
	manager := domain.Identity{UserID: "m1", Role: domain.RoleSalesManager}
	c, rec := newContext(http.MethodGet, "/api/reports/sales-performance?startDate=2026-01-01&endDate=2026-02-01T00:00:00Z&userId=u1", "", &manager)

	if err := NewReportHandler(svc).SalesPerformance(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.in.From.Month() != 1 || svc.in.To.Month() != 2 || svc.in.UserID != "u1" {
		t.Errorf("unexpected input %+v", svc.in)
	}
}
