package domain

import "time"

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "Pending"
	ActivityInProgress ActivityStatus = "In Progress"
	ActivityCompleted  ActivityStatus = "Completed"
	ActivityCancelled  ActivityStatus = "Cancelled"
)

const (
	DefaultActivityPriority  = "Medium"
	DefaultActivityRelatedTo = "None"
)

// Reminder configures when an activity should surface as a reminder.
type Reminder struct {
	Enabled      bool       `json:"enabled" bson:"enabled"`
	ReminderDate *time.Time `json:"reminderDate,omitempty" bson:"reminder_date,omitempty"`
}

// Activity is a task, call, meeting or follow-up owned by one user.
type Activity struct {
	ID             string         `json:"id" bson:"_id"`
	Type           string         `json:"type" bson:"type"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	DueDate        time.Time      `json:"dueDate" bson:"due_date"`
	CompletedDate  *time.Time     `json:"completedDate,omitempty" bson:"completed_date,omitempty"`
	Status         ActivityStatus `json:"status" bson:"status"`
	AssignedTo     string         `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	RelatedTo      string         `json:"relatedTo" bson:"related_to"`
	RelatedID      string         `json:"relatedId,omitempty" bson:"related_id,omitempty"`
	Priority       string         `json:"priority" bson:"priority"`
	Reminder       Reminder       `json:"reminder" bson:"reminder"`
	OrganizationID string         `json:"organization,omitempty" bson:"organization_id,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updated_at"`
}
