// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a user Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Email is unique; a duplicate fails with
// errs.ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.FullName = strings.TrimSpace(u.FullName)
	u.Email = strings.TrimSpace(u.Email)
	if u.FullName == "" || u.Email == "" || u.PasswordHash == "" {
		return models.User{}, errs.Validationf("name, email and password are required")
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.EmailCI = text.Fold(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, errs.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID returns one user.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, errs.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, errs.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SetLastOpened updates the user's most-recently-viewed material pointer.
func (s *Store) SetLastOpened(ctx context.Context, userID primitive.ObjectID, lo models.LastOpened) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{"$set": bson.M{
		"last_opened": lo,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ToggleCompletedUnit flips membership of the (subject, unit) pair in the
// user's completed set: present removes, absent inserts. Calling it twice
// returns the set to its original membership.
func (s *Store) ToggleCompletedUnit(ctx context.Context, userID, subjectID, unitID primitive.ObjectID) ([]models.CompletedUnit, bool, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	pair := models.CompletedUnit{SubjectID: subjectID, UnitID: unitID}
	nowCompleted := !u.HasCompleted(subjectID, unitID)

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if nowCompleted {
		update["$addToSet"] = bson.M{"completed_units": pair}
	} else {
		update["$pull"] = bson.M{"completed_units": pair}
	}

	var updated models.User
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, errs.ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return updated.CompletedUnits, nowCompleted, nil
}
