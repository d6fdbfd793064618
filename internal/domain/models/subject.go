// internal/domain/models/subject.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject is the aggregate root for academic content. Units and their
// Materials are embedded documents: they have no identity outside the
// subject and are always read and written as part of the whole aggregate.
//
// Invariant: Code is unique across all subjects (enforced by a unique
// index on code_ci).
type Subject struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	Code   string `bson:"code" json:"code"`
	CodeCI string `bson:"code_ci" json:"-"`

	Semester string `bson:"semester" json:"semester"`

	// Owning faculty/admin user. Only this user may resolve material
	// requests filed against the subject.
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	// Units preserve insertion order; they display in creation order.
	Units []Unit `bson:"units" json:"units"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Unit is an embedded section of a Subject.
type Unit struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Materials []Material         `bson:"materials" json:"materials"`
}

// Material is an embedded document inside a Unit. After creation it is
// mutated only by view-count increments and removed only as a whole.
type Material struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	FileURL  string             `bson:"file_url" json:"file_url"` // opaque storage locator
	FileName string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FileSize int64              `bson:"file_size,omitempty" json:"file_size,omitempty"`

	UploadedBy primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	ViewCount  int64              `bson:"view_count" json:"view_count"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Unit returns the embedded unit with the given id, or nil.
func (s *Subject) Unit(unitID primitive.ObjectID) *Unit {
	for i := range s.Units {
		if s.Units[i].ID == unitID {
			return &s.Units[i]
		}
	}
	return nil
}

// Material returns the embedded material with the given id, or nil.
func (u *Unit) Material(materialID primitive.ObjectID) *Material {
	for i := range u.Materials {
		if u.Materials[i].ID == materialID {
			return &u.Materials[i]
		}
	}
	return nil
}

// MaterialCount returns the number of materials across all units.
func (s *Subject) MaterialCount() int {
	n := 0
	for i := range s.Units {
		n += len(s.Units[i].Materials)
	}
	return n
}

// ViewTotal returns the sum of view counts across all materials.
func (s *Subject) ViewTotal() int64 {
	var n int64
	for i := range s.Units {
		for j := range s.Units[i].Materials {
			n += s.Units[i].Materials[j].ViewCount
		}
	}
	return n
}
