package domain

import "time"

// AuditEvent records a single mutation performed through the API.
type AuditEvent struct {
	ActorID   string    `json:"actorId" bson:"actor_id"`
	ActorRole Role      `json:"actorRole" bson:"actor_role"`
	Action    string    `json:"action" bson:"action"`
	Resource  string    `json:"resource" bson:"resource"`
	RecordID  string    `json:"recordId" bson:"record_id"`
	At        time.Time `json:"at" bson:"at"`
}
