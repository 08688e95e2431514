// internal/domain/models/deadletter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationDeadLetter records a batch the messaging provider rejected.
// Fan-out never retries; this collection is the audit trail for operators
// who need to replay or investigate failed batches.
type NotificationDeadLetter struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommunityID primitive.ObjectID `bson:"community_id" json:"community_id"`
	Recipients  []string           `bson:"recipients" json:"recipients"`
	Body        string             `bson:"body" json:"body"`
	Error       string             `bson:"error" json:"error"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
