package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/policy"
	"github.com/salesdesk/crm-api/internal/core/ports"
	"github.com/salesdesk/crm-api/internal/pkg/metrics"
)

// recordBase bundles what every resource service needs around the policy
// engine: decision logging, tenancy, idempotent creates and the audit trail.
type recordBase struct {
	kind  policy.Kind
	audit ports.AuditSink
	idem  ports.IdempotencyStore
	log   zerolog.Logger
	now   func() time.Time
}

func newRecordBase(kind policy.Kind, audit ports.AuditSink, idem ports.IdempotencyStore, log zerolog.Logger) recordBase {
	return recordBase{
		kind:  kind,
		audit: audit,
		idem:  idem,
		log:   log.With().Str("resource", string(kind)).Logger(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// authorize evaluates the policy and turns a Deny into a wrapped ErrForbidden.
func (b recordBase) authorize(caller domain.Identity, action policy.Action, res policy.Resource) (policy.Decision, error) {
	return authorize(b.log, caller, action, res)
}

func authorize(log zerolog.Logger, caller domain.Identity, action policy.Action, res policy.Resource) (policy.Decision, error) {
	d := policy.Authorize(policy.Subject{ID: caller.UserID, Role: caller.Role}, action, res)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(res.Kind), string(action), d.Effect.String()).Inc()
	if !d.Allowed() {
		log.Warn().
			Str("user_id", caller.UserID).
			Str("role", string(caller.Role)).
			Str("action", string(action)).
			Str("record_id", res.ID).
			Str("reason", d.Reason).
			Msg("authorization denied")
		return d, fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}
	return d, nil
}

// precheck rejects callers who could not perform action even on a record
// they own, before any storage access.
func (b recordBase) precheck(caller domain.Identity, action policy.Action, id string) error {
	res := policy.Resource{Kind: b.kind, ID: id}
	if b.kind.Owned() {
		res.AssignedTo = caller.UserID
	}
	_, err := b.authorize(caller, action, res)
	return err
}

// tenant returns the organization filter for caller, or "" for cross-tenant callers.
func tenant(caller domain.Identity) string {
	if caller.CrossTenant() {
		return ""
	}
	return caller.OrganizationID
}

// listScope combines the tenant and the decision's owner scope.
func listScope(caller domain.Identity, d policy.Decision) ports.RecordScope {
	scope := ports.RecordScope{OrganizationID: tenant(caller)}
	if d.Effect == policy.AllowScoped {
		scope.AssignedTo = d.Scope.AssignedTo
	}
	return scope
}

func newID() string {
	return uuid.NewString()
}

func (b recordBase) record(caller domain.Identity, action, recordID string) {
	if b.audit == nil {
		return
	}
	b.audit.Enqueue(domain.AuditEvent{
		ActorID:   caller.UserID,
		ActorRole: caller.Role,
		Action:    action,
		Resource:  string(b.kind),
		RecordID:  recordID,
		At:        b.now(),
	})
}

func (b recordBase) idemScope(caller domain.Identity) string {
	return string(b.kind) + ":" + caller.UserID
}

// replayed returns the record id an earlier create stored under key, if any.
// Store failures are logged and treated as a miss.
func (b recordBase) replayed(ctx context.Context, caller domain.Identity, key string) string {
	if b.idem == nil || key == "" {
		return ""
	}
	id, err := b.idem.Lookup(ctx, b.idemScope(caller), key)
	if err != nil {
		b.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return ""
	}
	return id
}

func (b recordBase) remember(ctx context.Context, caller domain.Identity, key, recordID string) {
	if b.idem == nil || key == "" {
		return
	}
	if err := b.idem.Remember(ctx, b.idemScope(caller), key, recordID); err != nil {
		b.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
	}
}

func (b recordBase) created(caller domain.Identity, recordID string) {
	metrics.RecordsCreatedTotal.WithLabelValues(string(b.kind)).Inc()
	b.log.Info().Str("user_id", caller.UserID).Str("record_id", recordID).Msg("record created")
	b.record(caller, "create", recordID)
}

func (b recordBase) replay(caller domain.Identity, key, recordID string) {
	metrics.IdempotentReplaysTotal.WithLabelValues(string(b.kind)).Inc()
	b.log.Info().Str("user_id", caller.UserID).Str("idempotency_key", key).Str("record_id", recordID).Msg("idempotent replay")
}

// defaultOwner fills an empty assignedTo with the caller.
func defaultOwner(assignedTo *string, caller domain.Identity) {
	if *assignedTo == "" {
		*assignedTo = caller.UserID
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
