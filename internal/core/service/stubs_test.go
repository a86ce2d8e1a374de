package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Generic in-memory record store
// ---------------------------------------------------------------------------

type memRecords[E any] struct {
	items map[string]*E
	id    func(*E) string
	org   func(*E) string
	err   error // if set, every call returns this error
}

func newMemRecords[E any](id, org func(*E) string) memRecords[E] {
	return memRecords[E]{items: make(map[string]*E), id: id, org: org}
}

func (m *memRecords[E]) put(v *E) {
	clone := *v
	m.items[m.id(v)] = &clone
}

func (m *memRecords[E]) create(v *E) error {
	if m.err != nil {
		return m.err
	}
	m.put(v)
	return nil
}

// find mirrors the tenant-filtered Mongo lookup.
func (m *memRecords[E]) find(id, org string) (*E, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.items[id]
	if !ok || (org != "" && m.org(v) != org) {
		return nil, domain.ErrRecordNotFound
	}
	clone := *v
	return &clone, nil
}

func (m *memRecords[E]) update(v *E) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[m.id(v)]; !ok {
		return domain.ErrRecordNotFound
	}
	m.put(v)
	return nil
}

func (m *memRecords[E]) remove(id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRecords[E]) all(keep func(*E) bool) []*E {
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*E
	for _, id := range ids {
		v := m.items[id]
		if keep(v) {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out
}

func match(filter, value string) bool {
	return filter == "" || filter == value
}

// ---------------------------------------------------------------------------
// Record repositories
// ---------------------------------------------------------------------------

type stubLeadRepo struct {
	memRecords[domain.Lead]
	lastFilter ports.LeadFilter
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{memRecords: newMemRecords(
		func(l *domain.Lead) string { return l.ID },
		func(l *domain.Lead) string { return l.OrganizationID },
	)}
}

func (r *stubLeadRepo) Create(_ context.Context, l *domain.Lead) error { return r.create(l) }
func (r *stubLeadRepo) FindByID(_ context.Context, id, org string) (*domain.Lead, error) {
	return r.find(id, org)
}
func (r *stubLeadRepo) Update(_ context.Context, l *domain.Lead) error { return r.update(l) }
func (r *stubLeadRepo) Delete(_ context.Context, id string) error      { return r.remove(id) }

func (r *stubLeadRepo) List(_ context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	r.lastFilter = f
	if r.err != nil {
		return nil, 0, r.err
	}
	items := r.all(func(l *domain.Lead) bool {
		return match(f.OrganizationID, l.OrganizationID) &&
			match(f.AssignedTo, l.AssignedTo) &&
			match(f.Status, string(l.Status)) &&
			match(f.Source, l.Source) &&
			(f.Search == "" || strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.Search)))
	})
	return items, int64(len(items)), nil
}

type stubDealRepo struct {
	memRecords[domain.Deal]
	lastFilter ports.DealFilter
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{memRecords: newMemRecords(
		func(d *domain.Deal) string { return d.ID },
		func(d *domain.Deal) string { return d.OrganizationID },
	)}
}

func (r *stubDealRepo) Create(_ context.Context, d *domain.Deal) error { return r.create(d) }
func (r *stubDealRepo) FindByID(_ context.Context, id, org string) (*domain.Deal, error) {
	return r.find(id, org)
}
func (r *stubDealRepo) Update(_ context.Context, d *domain.Deal) error { return r.update(d) }
func (r *stubDealRepo) Delete(_ context.Context, id string) error      { return r.remove(id) }

func (r *stubDealRepo) List(_ context.Context, f ports.DealFilter) ([]*domain.Deal, int64, error) {
	r.lastFilter = f
	items := r.all(func(d *domain.Deal) bool {
		return match(f.OrganizationID, d.OrganizationID) &&
			match(f.AssignedTo, d.AssignedTo) &&
			match(f.Stage, string(d.Stage))
	})
	return items, int64(len(items)), nil
}

type stubActivityRepo struct {
	memRecords[domain.Activity]
	lastFilter ports.ActivityFilter
	lastScope  ports.RecordScope
}

func newStubActivityRepo() *stubActivityRepo {
	return &stubActivityRepo{memRecords: newMemRecords(
		func(a *domain.Activity) string { return a.ID },
		func(a *domain.Activity) string { return a.OrganizationID },
	)}
}

func (r *stubActivityRepo) Create(_ context.Context, a *domain.Activity) error { return r.create(a) }
func (r *stubActivityRepo) FindByID(_ context.Context, id, org string) (*domain.Activity, error) {
	return r.find(id, org)
}
func (r *stubActivityRepo) Update(_ context.Context, a *domain.Activity) error { return r.update(a) }
func (r *stubActivityRepo) Delete(_ context.Context, id string) error          { return r.remove(id) }

func (r *stubActivityRepo) List(_ context.Context, f ports.ActivityFilter) ([]*domain.Activity, int64, error) {
	r.lastFilter = f
	items := r.all(func(a *domain.Activity) bool {
		return match(f.OrganizationID, a.OrganizationID) &&
			match(f.AssignedTo, a.AssignedTo) &&
			match(f.Status, string(a.Status))
	})
	return items, int64(len(items)), nil
}

func (r *stubActivityRepo) DueReminders(_ context.Context, scope ports.RecordScope, now time.Time) ([]*domain.Activity, error) {
	r.lastScope = scope
	return r.all(func(a *domain.Activity) bool {
		open := a.Status == domain.ActivityPending || a.Status == domain.ActivityInProgress
		due := a.Reminder.Enabled && a.Reminder.ReminderDate != nil && !a.Reminder.ReminderDate.After(now)
		return open && due &&
			match(scope.OrganizationID, a.OrganizationID) &&
			match(scope.AssignedTo, a.AssignedTo)
	}), nil
}

type stubAccountRepo struct {
	memRecords[domain.Account]
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{memRecords: newMemRecords(
		func(a *domain.Account) string { return a.ID },
		func(a *domain.Account) string { return a.OrganizationID },
	)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error { return r.create(a) }
func (r *stubAccountRepo) FindByID(_ context.Context, id, org string) (*domain.Account, error) {
	return r.find(id, org)
}
func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error { return r.update(a) }
func (r *stubAccountRepo) Delete(_ context.Context, id string) error         { return r.remove(id) }

func (r *stubAccountRepo) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, int64, error) {
	items := r.all(func(a *domain.Account) bool {
		return match(f.OrganizationID, a.OrganizationID) && match(f.AssignedTo, a.AssignedTo)
	})
	return items, int64(len(items)), nil
}

type stubContactRepo struct {
	memRecords[domain.Contact]
	lastFilter ports.ContactFilter
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{memRecords: newMemRecords(
		func(c *domain.Contact) string { return c.ID },
		func(c *domain.Contact) string { return c.OrganizationID },
	)}
}

func (r *stubContactRepo) Create(_ context.Context, c *domain.Contact) error { return r.create(c) }
func (r *stubContactRepo) FindByID(_ context.Context, id, org string) (*domain.Contact, error) {
	return r.find(id, org)
}
func (r *stubContactRepo) Update(_ context.Context, c *domain.Contact) error { return r.update(c) }
func (r *stubContactRepo) Delete(_ context.Context, id string) error         { return r.remove(id) }

func (r *stubContactRepo) List(_ context.Context, f ports.ContactFilter) ([]*domain.Contact, int64, error) {
	r.lastFilter = f
	items := r.all(func(c *domain.Contact) bool {
		return match(f.OrganizationID, c.OrganizationID) && match(f.AccountID, c.AccountID)
	})
	return items, int64(len(items)), nil
}

// ---------------------------------------------------------------------------
// Credential store
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) sorted(keep func(*domain.User) bool) []*domain.User {
	var out []*domain.User
	for _, u := range r.users {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	items := r.sorted(func(u *domain.User) bool {
		return match(f.OrganizationID, u.OrganizationID) &&
			match(string(f.Role), string(u.Role)) &&
			match(string(f.Status), string(u.Status))
	})
	return items, int64(len(items)), nil
}

func (r *stubUserRepo) ListByRoles(_ context.Context, org string, roles []domain.Role) ([]*domain.User, error) {
	return r.sorted(func(u *domain.User) bool {
		if !match(org, u.OrganizationID) {
			return false
		}
		for _, role := range roles {
			if u.Role == role {
				return true
			}
		}
		return false
	}), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Reports, audit, idempotency, throttle
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	scopes   []ports.ReportScope
	leads    map[string]domain.LeadStats // keyed by AssignedTo
	deals    map[string]domain.DealStats
	acts     map[string]domain.ActivityStats
	recent   []*domain.Activity
	stages   []domain.StageSummary
	sources  []domain.SourceCount
	sales    []domain.SalesPerformance
	funnel   []domain.SourceConversion
	lastNow  time.Time
	lastSize int
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{
		leads: make(map[string]domain.LeadStats),
		deals: make(map[string]domain.DealStats),
		acts:  make(map[string]domain.ActivityStats),
	}
}

func (r *stubReportRepo) LeadStats(_ context.Context, s ports.ReportScope) (domain.LeadStats, error) {
	r.scopes = append(r.scopes, s)
	return r.leads[s.AssignedTo], nil
}

func (r *stubReportRepo) DealStats(_ context.Context, s ports.ReportScope) (domain.DealStats, error) {
	r.scopes = append(r.scopes, s)
	return r.deals[s.AssignedTo], nil
}

func (r *stubReportRepo) ActivityStats(_ context.Context, s ports.ReportScope, now time.Time) (domain.ActivityStats, error) {
	r.scopes = append(r.scopes, s)
	r.lastNow = now
	return r.acts[s.AssignedTo], nil
}

func (r *stubReportRepo) RecentActivities(_ context.Context, s ports.ReportScope, limit int) ([]*domain.Activity, error) {
	r.scopes = append(r.scopes, s)
	r.lastSize = limit
	return r.recent, nil
}

func (r *stubReportRepo) DealsByStage(_ context.Context, s ports.ReportScope) ([]domain.StageSummary, error) {
	r.scopes = append(r.scopes, s)
	return r.stages, nil
}

func (r *stubReportRepo) LeadsBySource(_ context.Context, s ports.ReportScope) ([]domain.SourceCount, error) {
	r.scopes = append(r.scopes, s)
	return r.sources, nil
}

func (r *stubReportRepo) SalesByOwner(_ context.Context, s ports.ReportScope) ([]domain.SalesPerformance, error) {
	r.scopes = append(r.scopes, s)
	return r.sales, nil
}

func (r *stubReportRepo) ConversionBySource(_ context.Context, s ports.ReportScope) ([]domain.SourceConversion, error) {
	r.scopes = append(r.scopes, s)
	return r.funnel, nil
}

func (r *stubReportRepo) lastScope() ports.ReportScope {
	if len(r.scopes) == 0 {
		return ports.ReportScope{}
	}
	return r.scopes[len(r.scopes)-1]
}

type stubAuditSink struct {
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(e domain.AuditEvent) { s.events = append(s.events, e) }

type stubIdempotencyStore struct {
	keys map[string]string
	err  error
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{keys: make(map[string]string)}
}

func (s *stubIdempotencyStore) Lookup(_ context.Context, scope, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.keys[scope+"|"+key], nil
}

func (s *stubIdempotencyStore) Remember(_ context.Context, scope, key, id string) error {
	if s.err != nil {
		return s.err
	}
	s.keys[scope+"|"+key] = id
	return nil
}

type stubThrottle struct {
	max      int64
	failures map[string]int64
	err      error
}

func newStubThrottle(max int64) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int64)}
}

func (t *stubThrottle) Blocked(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] >= t.max, nil
}

func (t *stubThrottle) Fail(_ context.Context, email string) (int64, error) {
	if t.err != nil {
		return 0, t.err
	}
	t.failures[email]++
	return t.failures[email], nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func identity(id string, role domain.Role) domain.Identity {
	return domain.Identity{UserID: id, Role: role}
}

func tenantIdentity(id string, role domain.Role, org string) domain.Identity {
	return domain.Identity{UserID: id, Role: role, OrganizationID: org}
}

var (
	admin     = identity("admin-1", domain.RoleAdmin)
	manager   = identity("mgr-1", domain.RoleSalesManager)
	salesExec = identity("u1", domain.RoleSalesExecutive)
	otherExec = identity("u2", domain.RoleSalesExecutive)
	marketing = identity("mk-1", domain.RoleMarketingExecutive)
	customer  = identity("c1", domain.RoleCustomer)
)
