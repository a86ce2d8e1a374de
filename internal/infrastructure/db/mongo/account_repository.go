package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type AccountRepository struct {
	store[domain.Account]
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{store: newStore[domain.Account](db, collectionAccounts)}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.insert(ctx, a)
}

func (r *AccountRepository) FindByID(ctx context.Context, id, organizationID string) (*domain.Account, error) {
	return r.findByID(ctx, id, organizationID)
}

func (r *AccountRepository) List(ctx context.Context, f ports.AccountFilter) ([]*domain.Account, int64, error) {
	filter := scopeFilter(f.RecordScope)
	setIf(filter, "type", f.Type)
	setIf(filter, "status", f.Status)
	setIf(filter, "industry", f.Industry)
	search(filter, f.Search, "name")
	return r.list(ctx, filter, newestFirst, f.Pagination)
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	return r.replace(ctx, a.ID, a)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, append(ownerIndexes(),
		mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}},
	))
}
