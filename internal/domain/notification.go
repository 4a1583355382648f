package domain

import (
	"time"

	"github.com/google/uuid"
)

// notificationNamespace scopes name-based notification ids.
var notificationNamespace = uuid.MustParse("6f1d3c2e-9a4b-5e7f-8c1d-2b3a4c5d6e7f")

// Notification is a notifications/{id} record owned by the recipient.
type Notification struct {
	ID        string            `json:"id" firestore:"-"`
	UserID    string            `json:"userId" firestore:"userId"`
	Title     string            `json:"title" firestore:"title"`
	Body      string            `json:"body" firestore:"body"`
	Category  string            `json:"category" firestore:"category"`
	Data      map[string]string `json:"data" firestore:"data"`
	Read      bool              `json:"read" firestore:"read"`
	CreatedAt time.Time         `json:"createdAt" firestore:"createdAt"`
}

// NotificationID derives a stable id from an event key, so replaying the
// same event overwrites one record rather than adding another.
func NotificationID(eventKey string) string {
	return uuid.NewSHA1(notificationNamespace, []byte(eventKey)).String()
}
