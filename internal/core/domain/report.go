package domain

// LeadStats summarises a set of leads.
type LeadStats struct {
	Total          int64   `json:"total"`
	New            int64   `json:"new"`
	Qualified      int64   `json:"qualified"`
	Converted      int64   `json:"converted"`
	ConversionRate float64 `json:"conversionRate"`
}

// DealStats summarises a set of deals.
type DealStats struct {
	Total      int64   `json:"total"`
	Open       int64   `json:"open"`
	Won        int64   `json:"won"`
	TotalValue float64 `json:"totalValue"`
}

// ActivityStats summarises a set of activities.
type ActivityStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Overdue   int64 `json:"overdue"`
	Completed int64 `json:"completed"`
}

// DashboardStats is the headline view of the dashboard.
type DashboardStats struct {
	Leads            LeadStats     `json:"leads"`
	Deals            DealStats     `json:"deals"`
	Activities       ActivityStats `json:"activities"`
	RecentActivities []*Activity   `json:"recentActivities"`
}

// StageSummary aggregates deals sharing a pipeline stage.
type StageSummary struct {
	Stage      DealStage `json:"stage" bson:"_id"`
	Count      int64     `json:"count" bson:"count"`
	TotalValue float64   `json:"totalValue" bson:"total_value"`
	AvgValue   float64   `json:"avgValue" bson:"avg_value"`
	MinValue   float64   `json:"minValue" bson:"min_value"`
	MaxValue   float64   `json:"maxValue" bson:"max_value"`
}

// SourceCount is the number of leads from one source.
type SourceCount struct {
	Source string `json:"source" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// SalesPerformance is one owner's deal results.
type SalesPerformance struct {
	UserID     string  `json:"userId" bson:"_id"`
	UserName   string  `json:"userName" bson:"user_name"`
	UserEmail  string  `json:"userEmail" bson:"user_email"`
	TotalDeals int64   `json:"totalDeals" bson:"total_deals"`
	TotalValue float64 `json:"totalValue" bson:"total_value"`
	WonDeals   int64   `json:"wonDeals" bson:"won_deals"`
	WonValue   float64 `json:"wonValue" bson:"won_value"`
	WinRate    float64 `json:"winRate" bson:"-"`
}

// SourceConversion is the lead funnel for one source.
type SourceConversion struct {
	Source         string  `json:"source" bson:"_id"`
	TotalLeads     int64   `json:"totalLeads" bson:"total_leads"`
	NewLeads       int64   `json:"newLeads" bson:"new_leads"`
	QualifiedLeads int64   `json:"qualifiedLeads" bson:"qualified_leads"`
	ConvertedLeads int64   `json:"convertedLeads" bson:"converted_leads"`
	ConversionRate float64 `json:"conversionRate" bson:"-"`
}

// PipelineAnalysis is the deal pipeline report.
type PipelineAnalysis struct {
	Stages  []StageSummary  `json:"stages"`
	Summary PipelineSummary `json:"summary"`
}

// PipelineSummary totals the pipeline across stages.
type PipelineSummary struct {
	TotalValue     float64 `json:"totalValue"`
	OpenValue      float64 `json:"openValue"`
	ClosedWonValue float64 `json:"closedWonValue"`
}

// Productivity is one executive's workload and results.
type Productivity struct {
	UserID                 string  `json:"userId"`
	UserName               string  `json:"userName"`
	UserEmail              string  `json:"userEmail"`
	UserRole               Role    `json:"userRole"`
	Leads                  int64   `json:"leads"`
	Deals                  int64   `json:"deals"`
	Activities             int64   `json:"activities"`
	CompletedActivities    int64   `json:"completedActivities"`
	WonDeals               int64   `json:"wonDeals"`
	TotalDealValue         float64 `json:"totalDealValue"`
	ActivityCompletionRate float64 `json:"activityCompletionRate"`
}

// Percent returns part/total*100 rounded to two decimals, or 0 when total is 0.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	v := float64(part) / float64(total) * 100
	return float64(int64(v*100+0.5)) / 100
}
