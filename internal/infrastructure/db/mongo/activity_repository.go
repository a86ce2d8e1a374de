package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

// reminderBatch caps how many due reminders one call returns.
const reminderBatch = 100

type ActivityRepository struct {
	store[domain.Activity]
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{store: newStore[domain.Activity](db, collectionActivities)}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	return r.insert(ctx, a)
}

func (r *ActivityRepository) FindByID(ctx context.Context, id, organizationID string) (*domain.Activity, error) {
	return r.findByID(ctx, id, organizationID)
}

// List orders activities by due date, soonest first.
func (r *ActivityRepository) List(ctx context.Context, f ports.ActivityFilter) ([]*domain.Activity, int64, error) {
	filter := scopeFilter(f.RecordScope)
	setIf(filter, "type", f.Type)
	setIf(filter, "status", f.Status)
	setIf(filter, "related_to", f.RelatedTo)
	setIf(filter, "priority", f.Priority)
	if !f.DueDate.IsZero() {
		filter["due_date"] = sameDay(f.DueDate)
	}
	return r.list(ctx, filter, bson.D{{Key: "due_date", Value: 1}}, f.Pagination)
}

func (r *ActivityRepository) DueReminders(ctx context.Context, scope ports.RecordScope, now time.Time) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(scope)
	filter["status"] = bson.M{"$in": bson.A{domain.ActivityPending, domain.ActivityInProgress}}
	filter["reminder.enabled"] = true
	filter["reminder.reminder_date"] = bson.M{"$lte": now}

	opts := options.Find().
		SetSort(bson.D{{Key: "reminder.reminder_date", Value: 1}}).
		SetLimit(reminderBatch)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find due reminders: %w", err)
	}
	activities := make([]*domain.Activity, 0)
	if err := cur.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("decode due reminders: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	return r.replace(ctx, a.ID, a)
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, append(ownerIndexes(),
		mongo.IndexModel{Keys: bson.D{{Key: "due_date", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "reminder.enabled", Value: 1}, {Key: "reminder.reminder_date", Value: 1}}},
	))
}
