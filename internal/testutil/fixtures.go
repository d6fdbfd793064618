// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "test-hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateSubject inserts a subject with no units.
func (f *Fixtures) CreateSubject(ctx context.Context, name, code, semester string, ownerID primitive.ObjectID) models.Subject {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.Subject{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Code:      code,
		CodeCI:    text.Fold(code),
		Semester:  semester,
		CreatedBy: ownerID,
		Units:     []models.Unit{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("subjects").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return sub
}

// Unit builds an embedded unit value; callers attach it via the store or a
// direct update.
func (f *Fixtures) Unit(title string, materials ...models.Material) models.Unit {
	f.t.Helper()
	return models.Unit{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Materials: materials,
	}
}

// Material builds an embedded material value.
func (f *Fixtures) Material(title string, uploadedBy primitive.ObjectID) models.Material {
	f.t.Helper()
	return models.Material{
		ID:         primitive.NewObjectID(),
		Title:      title,
		FileURL:    "materials/test/" + primitive.NewObjectID().Hex() + ".pdf",
		FileName:   "test.pdf",
		FileSize:   1024,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}
}
