// internal/domain/models/bookmark.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark marks a material a student wants to return to.
//
// Invariant: unique per (student, subject, unit, material) — adding the same
// bookmark again is an upsert, never a duplicate.
type Bookmark struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID  primitive.ObjectID `bson:"student_id" json:"student_id"`
	SubjectID  primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	UnitID     primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	MaterialID primitive.ObjectID `bson:"material_id" json:"material_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
