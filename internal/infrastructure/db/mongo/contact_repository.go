package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

type ContactRepository struct {
	store[domain.Contact]
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{store: newStore[domain.Contact](db, collectionContacts)}
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	return r.insert(ctx, c)
}

func (r *ContactRepository) FindByID(ctx context.Context, id, organizationID string) (*domain.Contact, error) {
	return r.findByID(ctx, id, organizationID)
}

func (r *ContactRepository) List(ctx context.Context, f ports.ContactFilter) ([]*domain.Contact, int64, error) {
	filter := bson.M{}
	setIf(filter, "organization_id", f.OrganizationID)
	setIf(filter, "account_id", f.AccountID)
	search(filter, f.Search, "first_name", "last_name", "email")
	return r.list(ctx, filter, newestFirst, f.Pagination)
}

func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	return r.replace(ctx, c.ID, c)
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "account_id", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
}
