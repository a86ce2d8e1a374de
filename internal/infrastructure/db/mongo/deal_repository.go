package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type DealRepository struct {
	store[domain.Deal]
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{store: newStore[domain.Deal](db, collectionDeals)}
}

func (r *DealRepository) Create(ctx context.Context, d *domain.Deal) error {
	return r.insert(ctx, d)
}

func (r *DealRepository) FindByID(ctx context.Context, id, organizationID string) (*domain.Deal, error) {
	return r.findByID(ctx, id, organizationID)
}

func (r *DealRepository) List(ctx context.Context, f ports.DealFilter) ([]*domain.Deal, int64, error) {
	filter := scopeFilter(f.RecordScope)
	setIf(filter, "stage", f.Stage)
	search(filter, f.Search, "deal_name", "description")
	return r.list(ctx, filter, newestFirst, f.Pagination)
}

func (r *DealRepository) Update(ctx context.Context, d *domain.Deal) error {
	return r.replace(ctx, d.ID, d)
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *DealRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, append(ownerIndexes(),
		mongo.IndexModel{Keys: bson.D{{Key: "stage", Value: 1}}},
	))
}
