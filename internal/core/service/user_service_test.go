package service

import (
	"context"
	"errors"
	"testing"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

func staffUser(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   id,
		Email:  id + "@example.com",
		Role:   role,
		Status: domain.StatusActive,
	}
}

func newUserFixture(users ...*domain.User) (*UserService, *stubUserRepo, *stubAuditSink) {
	repo := newStubUserRepo(users...)
	audit := &stubAuditSink{}
	svc := NewUserService(repo, audit, discardLogger)
	svc.now = fixedClock
	return svc, repo, audit
}

func TestUserService_Delete_SelfDeniedBeforeStorage(t *testing.T) {
	svc, repo, _ := newUserFixture(staffUser("admin-1", domain.RoleAdmin))
	repo.err = errors.New("store must not be touched")

	err := svc.Delete(context.Background(), admin, "admin-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Delete_Rules(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Identity
		target  string
		wantErr error
	}{
		{"admin deletes another admin", admin, "admin-2", nil},
		{"manager cannot delete admin", manager, "admin-2", domain.ErrForbidden},
		{"manager deletes executive", manager, "u2", nil},
		{"executive cannot delete", salesExec, "u2", domain.ErrForbidden},
		{"missing user", admin, "ghost", domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, audit := newUserFixture(
				staffUser("admin-1", domain.RoleAdmin),
				staffUser("admin-2", domain.RoleAdmin),
				staffUser("u2", domain.RoleSalesExecutive),
			)
			err := svc.Delete(context.Background(), tt.caller, tt.target)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := repo.users[tt.target]; ok {
				t.Fatal("user should be deleted")
			}
			if len(audit.events) != 1 || audit.events[0].Action != "delete" {
				t.Fatalf("expected delete audit event, got %+v", audit.events)
			}
		})
	}
}

func TestUserService_Update_RoleRequiresAdmin(t *testing.T) {
	svc, repo, _ := newUserFixture(staffUser("u2", domain.RoleSalesExecutive))

	role := domain.RoleSalesManager
	_, err := svc.Update(context.Background(), manager, "u2", domain.UserPatch{Role: &role})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.users["u2"].Role != domain.RoleSalesExecutive {
		t.Fatal("role must not change")
	}

	got, err := svc.Update(context.Background(), admin, "u2", domain.UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if got.Role != domain.RoleSalesManager {
		t.Fatalf("expected Sales Manager, got %s", got.Role)
	}
}

func TestUserService_Update_RoleWithOtherFieldsFailsClosed(t *testing.T) {
	svc, repo, _ := newUserFixture(staffUser("u1", domain.RoleSalesExecutive))

	name := "New Name"
	status := domain.StatusInactive
	_, err := svc.Update(context.Background(), salesExec, "u1", domain.UserPatch{Name: &name, Status: &status})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.users["u1"].Name != "u1" {
		t.Fatal("no field may be written when the request is refused")
	}
}

func TestUserService_Update_OwnProfile(t *testing.T) {
	svc, _, _ := newUserFixture(
		staffUser("u1", domain.RoleSalesExecutive),
		staffUser("c1", domain.RoleCustomer),
	)

	phone := "555-0100"
	got, err := svc.Update(context.Background(), salesExec, "u1", domain.UserPatch{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != phone {
		t.Fatalf("expected phone %s, got %s", phone, got.Phone)
	}

	if _, err := svc.Update(context.Background(), customer, "c1", domain.UserPatch{Phone: &phone}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customer profile is read-only, got %v", err)
	}
	if _, err := svc.Update(context.Background(), salesExec, "c1", domain.UserPatch{Phone: &phone}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden editing another user, got %v", err)
	}
}

func TestUserService_Update_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserFixture(
		staffUser("u1", domain.RoleSalesExecutive),
		staffUser("u2", domain.RoleSalesExecutive),
	)

	email := "U2@Example.com"
	if _, err := svc.Update(context.Background(), salesExec, "u1", domain.UserPatch{Email: &email}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_ManagerCannotTakeOverAccounts(t *testing.T) {
	password := "hijacked1"
	email := "attacker@example.com"
	name := "Renamed"
	tests := []struct {
		name    string
		caller  domain.Identity
		target  string
		patch   domain.UserPatch
		wantErr error
	}{
		{"manager resets admin credentials", manager, "admin-2", domain.UserPatch{Password: &password, Email: &email}, domain.ErrForbidden},
		{"manager renames admin", manager, "admin-2", domain.UserPatch{Name: &name}, domain.ErrForbidden},
		{"manager resets executive password", manager, "u2", domain.UserPatch{Password: &password}, domain.ErrForbidden},
		{"manager changes executive email", manager, "u2", domain.UserPatch{Email: &email}, domain.ErrForbidden},
		{"manager renames executive", manager, "u2", domain.UserPatch{Name: &name}, nil},
		{"admin resets executive password", admin, "u2", domain.UserPatch{Password: &password}, nil},
		{"executive changes own password", salesExec, "u1", domain.UserPatch{Password: &password}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, audit := newUserFixture(
				staffUser("admin-1", domain.RoleAdmin),
				staffUser("admin-2", domain.RoleAdmin),
				staffUser("u1", domain.RoleSalesExecutive),
				staffUser("u2", domain.RoleSalesExecutive),
			)
			before := *repo.users[tt.target]

			_, err := svc.Update(context.Background(), tt.caller, tt.target, tt.patch)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			after := repo.users[tt.target]
			if tt.wantErr != nil {
				if after.PasswordHash != before.PasswordHash || after.Email != before.Email || after.Name != before.Name {
					t.Fatal("refused update must not change the account")
				}
				if len(audit.events) != 0 {
					t.Fatal("refused update must not be audited")
				}
				return
			}
			if tt.patch.Password != nil && after.PasswordHash == before.PasswordHash {
				t.Fatal("expected password hash to change")
			}
		})
	}
}

func TestUserService_Create(t *testing.T) {
	svc, repo, audit := newUserFixture()

	u, err := svc.Create(context.Background(), manager, ports.CreateUserInput{
		Name:     "Jane",
		Email:    "Jane@Example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleSalesExecutive || u.Status != domain.StatusActive {
		t.Fatalf("unexpected defaults: role=%s status=%s", u.Role, u.Status)
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Fatal("password must be hashed")
	}
	if _, ok := repo.users[u.ID]; !ok {
		t.Fatal("user not stored")
	}
	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}

	_, err = svc.Create(context.Background(), manager, ports.CreateUserInput{
		Name: "Root", Email: "root@example.com", Password: "secret1", Role: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager must not set role, got %v", err)
	}

	_, err = svc.Create(context.Background(), salesExec, ports.CreateUserInput{
		Name: "X", Email: "x@example.com", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("executive must not create users, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	svc, _, _ := newUserFixture(
		staffUser("u1", domain.RoleSalesExecutive),
		staffUser("u2", domain.RoleSalesExecutive),
	)

	if _, err := svc.Get(context.Background(), salesExec, "u1"); err != nil {
		t.Fatalf("own profile should be readable: %v", err)
	}
	if _, err := svc.Get(context.Background(), salesExec, "u2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), manager, "u2"); err != nil {
		t.Fatalf("manager read failed: %v", err)
	}
}

func TestUserService_List_TenantFilter(t *testing.T) {
	a := staffUser("u1", domain.RoleSalesExecutive)
	a.OrganizationID = "org-a"
	b := staffUser("u2", domain.RoleSalesExecutive)
	b.OrganizationID = "org-b"
	svc, _, _ := newUserFixture(a, b)

	page, err := svc.List(context.Background(), tenantIdentity("mgr-1", domain.RoleSalesManager, "org-a"), ports.UserFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "u1" {
		t.Fatalf("expected only org-a users, got %+v", page.Items)
	}

	if _, err := svc.List(context.Background(), salesExec, ports.UserFilter{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
