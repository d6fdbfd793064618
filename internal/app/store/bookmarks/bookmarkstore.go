// internal/app/store/bookmarks/bookmarkstore.go
package bookmarkstore

import (
	"context"
	"time"

	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the bookmarks collection.
type Store struct {
	c *mongo.Collection
}

// New creates a bookmark Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookmarks")}
}

// Upsert adds a bookmark for the (student, subject, unit, material) tuple.
// The operation is an atomic upsert keyed by the tuple: re-adding returns the
// existing record, and two concurrent adds both return the same document.
func (s *Store) Upsert(ctx context.Context, studentID, subjectID, unitID, materialID primitive.ObjectID) (models.Bookmark, error) {
	filter := bson.M{
		"student_id":  studentID,
		"subject_id":  subjectID,
		"unit_id":     unitID,
		"material_id": materialID,
	}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":         primitive.NewObjectID(),
		"student_id":  studentID,
		"subject_id":  subjectID,
		"unit_id":     unitID,
		"material_id": materialID,
		"created_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var b models.Bookmark
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if wafflemongo.IsDup(err) {
		// Two concurrent upserts raced on the unique tuple index; the loser
		// retries once and matches the winner's document.
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	}
	if err != nil {
		return models.Bookmark{}, err
	}
	return b, nil
}

// Delete removes a bookmark owned by the given student.
func (s *Store) Delete(ctx context.Context, id, studentID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "student_id": studentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByStudent returns a student's bookmarks, newest first, capped at limit
// (0 means no cap).
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID, limit int64) ([]models.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Bookmark
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByStudent returns the number of bookmarks a student holds.
func (s *Store) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"student_id": studentID})
}
