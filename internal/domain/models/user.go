// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents admins, faculty, and students.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`

	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"` // admin | faculty | student

	// LastOpened points at the material the student most recently viewed.
	LastOpened *LastOpened `bson:"last_opened,omitempty" json:"last_opened,omitempty"`

	// CompletedUnits holds (subject, unit) pairs the student has marked
	// complete. Membership is toggled; presence means completed.
	CompletedUnits []CompletedUnit `bson:"completed_units,omitempty" json:"completed_units,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LastOpened records the most recently viewed material for a user.
type LastOpened struct {
	SubjectID  primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	UnitID     primitive.ObjectID `bson:"unit_id" json:"unit_id"`
	MaterialID primitive.ObjectID `bson:"material_id" json:"material_id"`
	OpenedAt   time.Time          `bson:"opened_at" json:"opened_at"`
}

// CompletedUnit identifies one unit within one subject.
type CompletedUnit struct {
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	UnitID    primitive.ObjectID `bson:"unit_id" json:"unit_id"`
}

// HasCompleted reports whether the (subject, unit) pair is marked complete.
func (u *User) HasCompleted(subjectID, unitID primitive.ObjectID) bool {
	for _, c := range u.CompletedUnits {
		if c.SubjectID == subjectID && c.UnitID == unitID {
			return true
		}
	}
	return false
}
