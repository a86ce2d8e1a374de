package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/policy"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

// UserService manages CRM users on behalf of administrators, managers and
// users editing their own profile.
type UserService struct {
	recordBase
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{
		recordBase: newRecordBase(policy.KindUsers, audit, nil, log),
		repo:       repo,
	}
}

func (s *UserService) List(ctx context.Context, caller domain.Identity, filter ports.UserFilter) (*ports.Page[*domain.User], error) {
	if _, err := s.authorize(caller, policy.ActionList, policy.Resource{Kind: s.kind}); err != nil {
		return nil, err
	}

	filter.OrganizationID = tenant(caller)
	filter.Pagination = filter.Pagination.Normalize()

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPage(users, total, filter.Pagination), nil
}

func (s *UserService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.User, error) {
	if _, err := s.authorize(caller, policy.ActionRead, policy.Resource{Kind: s.kind, ID: id}); err != nil {
		return nil, err
	}
	return s.find(ctx, caller, id)
}

// Create adds a staff or customer account. Only an administrator may set role
// or status explicitly.
func (s *UserService) Create(ctx context.Context, caller domain.Identity, in ports.CreateUserInput) (*domain.User, error) {
	var fields []string
	if in.Role != "" {
		fields = append(fields, policy.FieldRole)
	}
	if in.Status != "" {
		fields = append(fields, policy.FieldStatus)
	}
	if _, err := s.authorize(caller, policy.ActionCreate, policy.Resource{Kind: s.kind, Fields: fields}); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleSalesExecutive
	}
	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}

	u, err := buildUser(ctx, s.repo, s.now(), in.Name, in.Email, in.Password, in.Phone, in.Company, role, status, caller.OrganizationID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.created(caller, u.ID)
	return u, nil
}

// Update applies patch. Role and status writes by anyone but an
// administrator are refused as a whole, as are non-admin edits of an
// administrator or of another user's email and password.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.UserPatch) (*domain.User, error) {
	fields := patch.Fields()
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, Fields: fields}); err != nil {
		return nil, err
	}

	u, err := s.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(caller, policy.ActionUpdate, policy.Resource{Kind: s.kind, ID: id, TargetRole: u.Role, Fields: fields}); err != nil {
		return nil, err
	}

	if patch.Role != nil && !patch.Role.Valid() {
		return nil, validationError("role %q is not valid", *patch.Role)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, validationError("status %q is not valid", *patch.Status)
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, validationError("name must not be empty")
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, validationError("email must not be empty")
		}
		if email != u.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrUserExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
	}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLength {
			return nil, validationError("password must be at least %d characters", minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	patch.Apply(u)
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.record(caller, "update", u.ID)
	return u, nil
}

// Delete removes a user. Nobody may delete their own account and managers
// may not delete administrators.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := s.authorize(caller, policy.ActionDelete, policy.Resource{Kind: s.kind, ID: id}); err != nil {
		return err
	}

	u, err := s.find(ctx, caller, id)
	if err != nil {
		return err
	}
	if _, err := s.authorize(caller, policy.ActionDelete, policy.Resource{Kind: s.kind, ID: id, TargetRole: u.Role}); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.record(caller, "delete", id)
	return nil
}

// find loads a user within the caller's tenant. A caller always reaches their
// own profile.
func (s *UserService) find(ctx context.Context, caller domain.Identity, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org := tenant(caller); org != "" && u.ID != caller.UserID && u.OrganizationID != org {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

