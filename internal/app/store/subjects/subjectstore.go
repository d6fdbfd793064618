// internal/app/store/subjects/subjectstore.go
//
// Package subjectstore is the content store for the Subject aggregate.
// Units and Materials are embedded documents, so every nested mutation is a
// single document-level update whose filter validates the full ancestor
// chain: a unit id must belong to the named subject and a material id to the
// named unit. Cross-aggregate ids never resolve to the wrong parent.
package subjectstore

import (
	"context"
	"errors"
	"regexp"
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

// IndexNotifier receives best-effort notifications after aggregate writes
// commit. Implementations must not block: the content path never waits on,
// and never fails because of, index maintenance.
type IndexNotifier interface {
	SubjectUpserted(subject models.Subject)
	MaterialAdded(subject models.Subject, unit models.Unit, material models.Material)
	MaterialRemoved(subjectID, unitID, materialID primitive.ObjectID)
}

// Store manages the subjects collection.
type Store struct {
	c        *mongo.Collection
	notifier IndexNotifier
}

// New creates a subject Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subjects")}
}

// WithNotifier attaches an IndexNotifier and returns the store.
func (s *Store) WithNotifier(n IndexNotifier) *Store {
	s.notifier = n
	return s
}

// Create inserts a new Subject with no units. The code must be globally
// unique; a duplicate fails with errs.ErrDuplicateCode and leaves no state
// behind.
func (s *Store) Create(ctx context.Context, name, code, semester string, ownerID primitive.ObjectID) (models.Subject, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	semester = strings.TrimSpace(semester)

	if name == "" || code == "" || semester == "" {
		return models.Subject{}, errs.Validationf("name, code and semester are required")
	}
	if ownerID.IsZero() {
		return models.Subject{}, errs.Validationf("owner is required")
	}

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

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subject{}, errs.ErrDuplicateCode
		}
		return models.Subject{}, err
	}

	if s.notifier != nil {
		s.notifier.SubjectUpserted(sub)
	}
	return sub, nil
}

// GetByID returns one subject aggregate.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Subject, error) {
	var sub models.Subject
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Subject{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Subject{}, err
	}
	return sub, nil
}

// List returns all subjects, newest first.
func (s *Store) List(ctx context.Context) ([]models.Subject, error) {
	return s.find(ctx, bson.M{})
}

// ListByOwner returns the subjects created by one faculty/admin user,
// newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Subject, error) {
	return s.find(ctx, bson.M{"created_by": ownerID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Subject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Subject
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// AddUnit appends a unit to the subject, preserving insertion order.
// Returns the updated aggregate and the unit that was created, so callers
// never have to guess which array element was theirs.
func (s *Store) AddUnit(ctx context.Context, subjectID primitive.ObjectID, title string) (models.Subject, models.Unit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Subject{}, models.Unit{}, errs.Validationf("unit title is required")
	}

	unit := models.Unit{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Materials: []models.Material{},
	}

	var updated models.Subject
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": subjectID},
		bson.M{
			"$push": bson.M{"units": unit},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Subject{}, models.Unit{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Subject{}, models.Unit{}, err
	}

	// Unit titles are part of the subject's search projection.
	if s.notifier != nil {
		s.notifier.SubjectUpserted(updated)
	}
	return updated, unit, nil
}

// AddMaterial appends a material to the named unit. The update filter names
// both the subject and the unit, so the push is atomic and cannot land in a
// unit that belongs to a different subject.
func (s *Store) AddMaterial(ctx context.Context, subjectID, unitID primitive.ObjectID, m models.Material) (models.Material, error) {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" || strings.TrimSpace(m.FileURL) == "" {
		return models.Material{}, errs.Validationf("material title and file are required")
	}

	m.ID = primitive.NewObjectID()
	m.ViewCount = 0
	m.CreatedAt = time.Now().UTC()

	var updated models.Subject
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": subjectID, "units._id": unitID},
		bson.M{
			"$push": bson.M{"units.$.materials": m},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Material{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Material{}, err
	}

	if s.notifier != nil {
		if unit := updated.Unit(unitID); unit != nil {
			s.notifier.MaterialAdded(updated, *unit, m)
		}
	}
	return m, nil
}

// RemoveMaterial deletes a material from the named unit and triggers removal
// from the search index. Fails with errs.ErrNotFound at any addressing level.
func (s *Store) RemoveMaterial(ctx context.Context, subjectID, unitID, materialID primitive.ObjectID) error {
	// The $elemMatch makes the filter assert the full ancestor chain: the
	// document only matches when the named unit itself holds the material.
	// A $set alone would flip ModifiedCount, so MatchedCount is the signal.
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id": subjectID,
			"units": bson.M{"$elemMatch": bson.M{
				"_id":           unitID,
				"materials._id": materialID,
			}},
		},
		bson.M{
			"$pull": bson.M{"units.$.materials": bson.M{"_id": materialID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Subject, unit, or material missing, or the material lives in a
		// different unit.
		return errs.ErrNotFound
	}

	if s.notifier != nil {
		s.notifier.MaterialRemoved(subjectID, unitID, materialID)
	}
	return nil
}

// IncrementView atomically adds one to a material's view counter and returns
// the new count. The $elemMatch filter requires the material to live inside
// the named unit of the named subject, and the arrayFilters $inc is applied
// by the server in a single document update, so concurrent increments never
// lose updates.
func (s *Store) IncrementView(ctx context.Context, subjectID, unitID, materialID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"_id": subjectID,
		"units": bson.M{"$elemMatch": bson.M{
			"_id":           unitID,
			"materials._id": materialID,
		}},
	}
	update := bson.M{
		"$inc": bson.M{"units.$[u].materials.$[m].view_count": 1},
	}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"u._id": unitID},
			bson.M{"m._id": materialID},
		}}).
		SetReturnDocument(options.After)

	var updated models.Subject
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, errs.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	unit := updated.Unit(unitID)
	if unit == nil {
		return 0, errs.ErrNotFound
	}
	mat := unit.Material(materialID)
	if mat == nil {
		return 0, errs.ErrNotFound
	}
	return mat.ViewCount, nil
}

// FindMaterialByID locates a material by its global id. Materials have no
// collection of their own, so this queries subjects by nested-id equality
// and walks the embedded structure.
func (s *Store) FindMaterialByID(ctx context.Context, materialID primitive.ObjectID) (models.Subject, models.Unit, models.Material, error) {
	var sub models.Subject
	err := s.c.FindOne(ctx, bson.M{"units.materials._id": materialID}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Subject{}, models.Unit{}, models.Material{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Subject{}, models.Unit{}, models.Material{}, err
	}

	for i := range sub.Units {
		if mat := sub.Units[i].Material(materialID); mat != nil {
			return sub, sub.Units[i], *mat, nil
		}
	}
	return models.Subject{}, models.Unit{}, models.Material{}, errs.ErrNotFound
}

// FindSubjectMatches returns subjects whose name, code, semester, or unit
// titles contain the term (case-insensitive substring). Used by the fallback
// search engine when the external index is unavailable.
func (s *Store) FindSubjectMatches(ctx context.Context, term string) ([]models.Subject, error) {
	folded := foldedPattern(term)
	plain := literalPattern(term)
	filter := bson.M{"$or": []bson.M{
		{"name_ci": bson.M{"$regex": folded}},
		{"code_ci": bson.M{"$regex": folded}},
		{"semester": bson.M{"$regex": plain, "$options": "i"}},
		{"units.title": bson.M{"$regex": plain, "$options": "i"}},
	}}
	return s.find(ctx, filter)
}

// FindMaterialTitleMatches returns subjects holding at least one material
// whose title contains the term. Callers walk the embedded units to collect
// the matching materials themselves.
func (s *Store) FindMaterialTitleMatches(ctx context.Context, term string) ([]models.Subject, error) {
	filter := bson.M{
		"units.materials.title": bson.M{"$regex": literalPattern(term), "$options": "i"},
	}
	return s.find(ctx, filter)
}

// literalPattern escapes the term for use inside a $regex so user input can
// never inject pattern syntax.
func literalPattern(term string) string {
	return regexp.QuoteMeta(strings.TrimSpace(term))
}

// foldedPattern escapes the case-folded term for matching against *_ci fields.
func foldedPattern(term string) string {
	return regexp.QuoteMeta(text.Fold(strings.TrimSpace(term)))
}
