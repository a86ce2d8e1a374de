package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type LeadRepository struct {
	store[domain.Lead]
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{store: newStore[domain.Lead](db, collectionLeads)}
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return r.insert(ctx, l)
}

func (r *LeadRepository) FindByID(ctx context.Context, id, organizationID string) (*domain.Lead, error) {
	return r.findByID(ctx, id, organizationID)
}

func (r *LeadRepository) List(ctx context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	filter := scopeFilter(f.RecordScope)
	setIf(filter, "status", f.Status)
	setIf(filter, "source", f.Source)
	search(filter, f.Search, "name", "company", "email")
	return r.list(ctx, filter, newestFirst, f.Pagination)
}

func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	return r.replace(ctx, l.ID, l)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, append(ownerIndexes(),
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "source", Value: 1}}},
	))
}
