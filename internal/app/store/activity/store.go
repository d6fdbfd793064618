// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event types for activity tracking.
const (
	EventSubjectCreated    = "subject_created"
	EventUnitAdded         = "unit_added"
	EventMaterialAdded     = "material_added"
	EventMaterialViewed    = "material_viewed"
	EventMaterialRequested = "material_requested"
)

// Event is one append-only activity record. Events are never mutated after
// creation.
type Event struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActorID primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Type    string             `bson:"type" json:"type"`

	SubjectID  *primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	UnitID     *primitive.ObjectID `bson:"unit_id,omitempty" json:"unit_id,omitempty"`
	MaterialID *primitive.ObjectID `bson:"material_id,omitempty" json:"material_id,omitempty"`

	Metadata map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store manages activity events.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_events")}
}

// Create appends a new activity event.
func (s *Store) Create(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// RecordSubjectCreated records that an actor created a subject.
func (s *Store) RecordSubjectCreated(ctx context.Context, actorID, subjectID primitive.ObjectID, name string) error {
	return s.Create(ctx, Event{
		ActorID:   actorID,
		Type:      EventSubjectCreated,
		SubjectID: &subjectID,
		Metadata:  map[string]any{"name": name},
	})
}

// RecordUnitAdded records that an actor added a unit to a subject.
func (s *Store) RecordUnitAdded(ctx context.Context, actorID, subjectID, unitID primitive.ObjectID, title string) error {
	return s.Create(ctx, Event{
		ActorID:   actorID,
		Type:      EventUnitAdded,
		SubjectID: &subjectID,
		UnitID:    &unitID,
		Metadata:  map[string]any{"title": title},
	})
}

// RecordMaterialAdded records that an actor uploaded a material.
func (s *Store) RecordMaterialAdded(ctx context.Context, actorID, subjectID, unitID, materialID primitive.ObjectID, title string) error {
	return s.Create(ctx, Event{
		ActorID:    actorID,
		Type:       EventMaterialAdded,
		SubjectID:  &subjectID,
		UnitID:     &unitID,
		MaterialID: &materialID,
		Metadata:   map[string]any{"title": title},
	})
}

// RecordMaterialViewed records that an actor opened a material.
func (s *Store) RecordMaterialViewed(ctx context.Context, actorID, subjectID, unitID, materialID primitive.ObjectID, title string) error {
	return s.Create(ctx, Event{
		ActorID:    actorID,
		Type:       EventMaterialViewed,
		SubjectID:  &subjectID,
		UnitID:     &unitID,
		MaterialID: &materialID,
		Metadata:   map[string]any{"title": title},
	})
}

// RecordMaterialRequested records that a student asked for new content.
func (s *Store) RecordMaterialRequested(ctx context.Context, actorID, subjectID, unitID primitive.ObjectID, requestedTitle string) error {
	return s.Create(ctx, Event{
		ActorID:   actorID,
		Type:      EventMaterialRequested,
		SubjectID: &subjectID,
		UnitID:    &unitID,
		Metadata:  map[string]any{"requested_title": requestedTitle},
	})
}

// ListByActor retrieves an actor's most recent events, newest first.
func (s *Store) ListByActor(ctx context.Context, actorID primitive.ObjectID, limit int64) ([]Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"actor_id": actorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
