// internal/domain/models/materialrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Material request statuses.
const (
	RequestPending  = "pending"
	RequestResolved = "resolved"
)

// MaterialRequest is a student's ask for content that does not exist yet.
// It is created by a student against a subject/unit and resolved only by
// the faculty/admin who owns the parent subject.
type MaterialRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	UnitID    primitive.ObjectID `bson:"unit_id" json:"unit_id"`

	RequestedTitle string `bson:"requested_title" json:"requested_title"`
	Description    string `bson:"description,omitempty" json:"description,omitempty"`

	Status     string     `bson:"status" json:"status"` // pending | resolved
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
