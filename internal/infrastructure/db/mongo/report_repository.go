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

// ReportRepository runs the dashboard and report aggregations over the
// leads, deals and activities collections.
type ReportRepository struct {
	leads      *mongo.Collection
	deals      *mongo.Collection
	activities *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		leads:      db.Collection(collectionLeads),
		deals:      db.Collection(collectionDeals),
		activities: db.Collection(collectionActivities),
	}
}

// reportMatch builds the $match stage for scope. The lead source only applies
// to lead aggregations.
func reportMatch(scope ports.ReportScope, withSource bool) bson.D {
	filter := scopeFilter(scope.RecordScope)
	if !scope.From.IsZero() && !scope.To.IsZero() {
		filter["created_at"] = bson.M{"$gte": scope.From, "$lte": scope.To}
	}
	if withSource {
		setIf(filter, "source", scope.Source)
	}
	return bson.D{{Key: "$match", Value: filter}}
}

// countIf sums 1 for every document where cond holds.
func countIf(cond any) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
}

func eq(field string, value any) bson.M {
	return bson.M{"$eq": bson.A{"$" + field, value}}
}

func aggregate[T any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", col.Name(), err)
	}
	rows := make([]T, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s aggregate: %w", col.Name(), err)
	}
	return rows, nil
}

// single runs a pipeline that groups everything into one row. An empty match
// yields the zero value.
func single[T any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) (T, error) {
	var zero T
	rows, err := aggregate[T](ctx, col, pipeline)
	if err != nil || len(rows) == 0 {
		return zero, err
	}
	return rows[0], nil
}

func (r *ReportRepository) LeadStats(ctx context.Context, scope ports.ReportScope) (domain.LeadStats, error) {
	type row struct {
		Total     int64 `bson:"total"`
		New       int64 `bson:"new"`
		Qualified int64 `bson:"qualified"`
		Converted int64 `bson:"converted"`
	}
	res, err := single[row](ctx, r.leads, mongo.Pipeline{
		reportMatch(scope, true),
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"new":       countIf(eq("status", domain.LeadNew)),
			"qualified": countIf(eq("status", domain.LeadQualified)),
			"converted": countIf(bson.M{"$or": bson.A{"$converted_to_contact", "$converted_to_deal"}}),
		}}},
	})
	if err != nil {
		return domain.LeadStats{}, err
	}
	return domain.LeadStats{Total: res.Total, New: res.New, Qualified: res.Qualified, Converted: res.Converted}, nil
}

func (r *ReportRepository) DealStats(ctx context.Context, scope ports.ReportScope) (domain.DealStats, error) {
	type row struct {
		Total      int64   `bson:"total"`
		Open       int64   `bson:"open"`
		Won        int64   `bson:"won"`
		TotalValue float64 `bson:"total_value"`
	}
	closed := bson.A{domain.StageClosedWon, domain.StageClosedLost}
	res, err := single[row](ctx, r.deals, mongo.Pipeline{
		reportMatch(scope, false),
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total":       bson.M{"$sum": 1},
			"open":        countIf(bson.M{"$not": bson.A{bson.M{"$in": bson.A{"$stage", closed}}}}),
			"won":         countIf(eq("stage", domain.StageClosedWon)),
			"total_value": bson.M{"$sum": "$value"},
		}}},
	})
	if err != nil {
		return domain.DealStats{}, err
	}
	return domain.DealStats{Total: res.Total, Open: res.Open, Won: res.Won, TotalValue: res.TotalValue}, nil
}

func (r *ReportRepository) ActivityStats(ctx context.Context, scope ports.ReportScope, now time.Time) (domain.ActivityStats, error) {
	type row struct {
		Total     int64 `bson:"total"`
		Pending   int64 `bson:"pending"`
		Overdue   int64 `bson:"overdue"`
		Completed int64 `bson:"completed"`
	}
	open := bson.M{"$in": bson.A{"$status", bson.A{domain.ActivityPending, domain.ActivityInProgress}}}
	res, err := single[row](ctx, r.activities, mongo.Pipeline{
		reportMatch(scope, false),
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"pending":   countIf(eq("status", domain.ActivityPending)),
			"completed": countIf(eq("status", domain.ActivityCompleted)),
			"overdue": countIf(bson.M{"$and": bson.A{
				open,
				bson.M{"$lt": bson.A{"$due_date", now}},
			}}),
		}}},
	})
	if err != nil {
		return domain.ActivityStats{}, err
	}
	return domain.ActivityStats{Total: res.Total, Pending: res.Pending, Overdue: res.Overdue, Completed: res.Completed}, nil
}

func (r *ReportRepository) RecentActivities(ctx context.Context, scope ports.ReportScope, limit int) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := reportMatch(scope, false)[0].Value
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(limit))
	cur, err := r.activities.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	activities := make([]*domain.Activity, 0, limit)
	if err := cur.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("decode recent activities: %w", err)
	}
	return activities, nil
}

func (r *ReportRepository) DealsByStage(ctx context.Context, scope ports.ReportScope) ([]domain.StageSummary, error) {
	return aggregate[domain.StageSummary](ctx, r.deals, mongo.Pipeline{
		reportMatch(scope, false),
		{{Key: "$group", Value: bson.M{
			"_id":         "$stage",
			"count":       bson.M{"$sum": 1},
			"total_value": bson.M{"$sum": "$value"},
			"avg_value":   bson.M{"$avg": "$value"},
			"min_value":   bson.M{"$min": "$value"},
			"max_value":   bson.M{"$max": "$value"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
}

func (r *ReportRepository) LeadsBySource(ctx context.Context, scope ports.ReportScope) ([]domain.SourceCount, error) {
	return aggregate[domain.SourceCount](ctx, r.leads, mongo.Pipeline{
		reportMatch(scope, true),
		{{Key: "$group", Value: bson.M{"_id": "$source", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
}

// SalesByOwner groups deals by owner and joins the owner's name and email.
func (r *ReportRepository) SalesByOwner(ctx context.Context, scope ports.ReportScope) ([]domain.SalesPerformance, error) {
	won := eq("stage", domain.StageClosedWon)
	return aggregate[domain.SalesPerformance](ctx, r.deals, mongo.Pipeline{
		reportMatch(scope, false),
		{{Key: "$group", Value: bson.M{
			"_id":         "$assigned_to",
			"total_deals": bson.M{"$sum": 1},
			"total_value": bson.M{"$sum": "$value"},
			"won_deals":   countIf(won),
			"won_value":   bson.M{"$sum": bson.M{"$cond": bson.A{won, "$value", 0}}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{
			"user_name":  "$user.name",
			"user_email": "$user.email",
		}}},
		{{Key: "$project", Value: bson.M{"user": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_value", Value: -1}}}},
	})
}

func (r *ReportRepository) ConversionBySource(ctx context.Context, scope ports.ReportScope) ([]domain.SourceConversion, error) {
	return aggregate[domain.SourceConversion](ctx, r.leads, mongo.Pipeline{
		reportMatch(scope, true),
		{{Key: "$group", Value: bson.M{
			"_id":             "$source",
			"total_leads":     bson.M{"$sum": 1},
			"new_leads":       countIf(eq("status", domain.LeadNew)),
			"qualified_leads": countIf(eq("status", domain.LeadQualified)),
			"converted_leads": countIf(bson.M{"$or": bson.A{"$converted_to_contact", "$converted_to_deal"}}),
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_leads", Value: -1}}}},
	})
}
