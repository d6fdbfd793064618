// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the material_requests collection.
type Store struct {
	c *mongo.Collection
}

// New creates a material-request Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("material_requests")}
}

// Create files a new pending request.
func (s *Store) Create(ctx context.Context, req models.MaterialRequest) (models.MaterialRequest, error) {
	req.RequestedTitle = strings.TrimSpace(req.RequestedTitle)
	if req.RequestedTitle == "" {
		return models.MaterialRequest{}, errs.Validationf("requested title is required")
	}

	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestPending
	req.ResolvedAt = nil
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.MaterialRequest{}, err
	}
	return req, nil
}

// GetByID returns one request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MaterialRequest, error) {
	var req models.MaterialRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MaterialRequest{}, errs.ErrNotFound
	}
	if err != nil {
		return models.MaterialRequest{}, err
	}
	return req, nil
}

// ListPendingForSubjects returns pending requests against any of the given
// subjects, newest first, capped at limit (0 means no cap).
func (s *Store) ListPendingForSubjects(ctx context.Context, subjectIDs []primitive.ObjectID, limit int64) ([]models.MaterialRequest, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"subject_id": bson.M{"$in": subjectIDs},
		"status":     models.RequestPending,
	}
	return s.find(ctx, filter, limit)
}

// ListByStudent returns a student's requests, newest first, capped at limit
// (0 means no cap).
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID, limit int64) ([]models.MaterialRequest, error) {
	return s.find(ctx, bson.M{"student_id": studentID}, limit)
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.MaterialRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MaterialRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve marks a pending request resolved. Resolving an already-resolved
// request is a no-op that returns the stored record unchanged.
func (s *Store) Resolve(ctx context.Context, id primitive.ObjectID) (models.MaterialRequest, error) {
	now := time.Now().UTC()
	var req models.MaterialRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{
			"status":      models.RequestResolved,
			"resolved_at": now,
			"updated_at":  now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Not pending: either missing or already resolved.
		return s.GetByID(ctx, id)
	}
	if err != nil {
		return models.MaterialRequest{}, err
	}
	return req, nil
}
