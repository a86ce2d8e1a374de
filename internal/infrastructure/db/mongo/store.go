package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salesdesk/crm-api/internal/core/domain"
	"github.com/salesdesk/crm-api/internal/core/ports"
)

// store holds the CRUD plumbing shared by the record repositories. Documents
// are the domain structs themselves, keyed by a string _id.
type store[T any] struct {
	col *mongo.Collection
}

func newStore[T any](db *mongo.Database, name string) store[T] {
	return store[T]{col: db.Collection(name)}
}

func (s store[T]) insert(ctx context.Context, v *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert into %s: %w", s.col.Name(), err)
	}
	return nil
}

// findByID retrieves a document. A non-empty organizationID restricts the
// lookup to that tenant.
func (s store[T]) findByID(ctx context.Context, id, organizationID string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	setIf(filter, "organization_id", organizationID)

	var v T
	if err := s.col.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", s.col.Name(), err)
	}
	return &v, nil
}

// list returns one page of documents matching filter plus the total match count.
func (s store[T]) list(ctx context.Context, filter bson.M, sort bson.D, p ports.Pagination) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.col.Name(), err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", s.col.Name(), err)
	}

	items := make([]*T, 0, p.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.col.Name(), err)
	}
	return items, total, nil
}

func (s store[T]) replace(ctx context.Context, id string, v *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, v)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s store[T]) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", s.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// scopeFilter turns the service-enforced scope into a query predicate.
func scopeFilter(scope ports.RecordScope) bson.M {
	filter := bson.M{}
	setIf(filter, "organization_id", scope.OrganizationID)
	setIf(filter, "assigned_to", scope.AssignedTo)
	return filter
}

func setIf(filter bson.M, key, value string) {
	if value != "" {
		filter[key] = value
	}
}

// search adds a case-insensitive partial match of term on any of fields.
func search(filter bson.M, term string, fields ...string) {
	if term == "" {
		return
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	filter["$or"] = or
}

// sameDay matches a timestamp anywhere within the UTC day of t.
func sameDay(t time.Time) bson.M {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return bson.M{"$gte": start, "$lt": start.Add(24 * time.Hour)}
}

func ownerIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
}
