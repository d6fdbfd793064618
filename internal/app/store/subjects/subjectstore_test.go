// internal/app/store/subjects/subjectstore_test.go
package subjectstore_test

import (
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	subjectstore "github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/indexes"
	"github.com/dalemusser/acadhub/internal/domain/models"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func TestCreate_Basic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, err := store.Create(ctx, "Operating Systems", "CS301", "Fall 2026", owner)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sub.ID.IsZero() {
		t.Error("expected generated subject ID")
	}
	if sub.Units == nil || len(sub.Units) != 0 {
		t.Errorf("expected empty units slice, got %v", sub.Units)
	}
	if sub.CreatedBy != owner {
		t.Errorf("expected owner %s, got %s", owner.Hex(), sub.CreatedBy.Hex())
	}
}

func TestCreate_DuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ensureSubjectIndexes(t, db)
	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, "Operating Systems", "CS301", "Fall 2026", owner); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same code with different case still collides on the folded field.
	_, err := store.Create(ctx, "Other Subject", "cs301", "Fall 2026", owner)
	if !errors.Is(err, errs.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)

	_, err := store.Create(ctx, "", "CS301", "Fall 2026", primitive.NewObjectID())
	if !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
}

func TestAddUnit_AppendsInOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	sub, err := store.Create(ctx, "Databases", "CS305", "Fall 2026", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var unit models.Unit
	for _, title := range []string{"Relational Model", "Indexing", "Transactions"} {
		sub, unit, err = store.AddUnit(ctx, sub.ID, title)
		if err != nil {
			t.Fatalf("AddUnit(%q) failed: %v", title, err)
		}
		if unit.Title != title {
			t.Errorf("returned unit is %q, want %q", unit.Title, title)
		}
	}

	if len(sub.Units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(sub.Units))
	}
	if sub.Units[2].ID != unit.ID {
		t.Errorf("returned unit id %s does not match appended element %s",
			unit.ID.Hex(), sub.Units[2].ID.Hex())
	}
	if sub.Units[0].Title != "Relational Model" || sub.Units[2].Title != "Transactions" {
		t.Errorf("units out of insertion order: %+v", sub.Units)
	}
}

func TestAddMaterial_WrongParentUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	subA, _ := store.Create(ctx, "Subject A", "CSA01", "Fall 2026", owner)
	subA, _, err := store.AddUnit(ctx, subA.ID, "Unit A1")
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}
	subB, _ := store.Create(ctx, "Subject B", "CSB01", "Fall 2026", owner)

	// Unit A1 does not belong to subject B.
	_, err = store.AddMaterial(ctx, subB.ID, subA.Units[0].ID, models.Material{
		Title:      "Notes",
		FileURL:    "materials/test/notes.pdf",
		FileName:   "notes.pdf",
		UploadedBy: owner,
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for cross-subject unit, got %v", err)
	}
}

func TestAddMaterial_AndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Networks", "CS340", "Spring 2026", owner)
	sub, _, err := store.AddUnit(ctx, sub.ID, "Routing")
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}

	mat, err := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title:      "BGP Slides",
		FileURL:    "materials/test/bgp.pdf",
		FileName:   "bgp.pdf",
		FileSize:   2048,
		UploadedBy: owner,
	})
	if err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}
	if mat.ID.IsZero() {
		t.Fatal("expected generated material ID")
	}
	if mat.ViewCount != 0 {
		t.Errorf("expected zero initial view count, got %d", mat.ViewCount)
	}

	gotSub, gotUnit, gotMat, err := store.FindMaterialByID(ctx, mat.ID)
	if err != nil {
		t.Fatalf("FindMaterialByID failed: %v", err)
	}
	if gotSub.ID != sub.ID || gotUnit.ID != sub.Units[0].ID || gotMat.Title != "BGP Slides" {
		t.Errorf("FindMaterialByID resolved wrong ancestors: subject %s unit %s material %q",
			gotSub.ID.Hex(), gotUnit.ID.Hex(), gotMat.Title)
	}
}

func TestRemoveMaterial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Compilers", "CS352", "Fall 2026", owner)
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Parsing")
	mat, err := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "LL(1) Notes", FileURL: "materials/test/ll1.pdf", FileName: "ll1.pdf", UploadedBy: owner,
	})
	if err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}

	if err := store.RemoveMaterial(ctx, sub.ID, sub.Units[0].ID, mat.ID); err != nil {
		t.Fatalf("RemoveMaterial failed: %v", err)
	}

	// Deleting again reports not found.
	err = store.RemoveMaterial(ctx, sub.ID, sub.Units[0].ID, mat.ID)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	if _, _, _, err := store.FindMaterialByID(ctx, mat.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected removed material to be unfindable, got %v", err)
	}
}

func TestRemoveMaterial_WrongAncestors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Databases", "CS386", "Fall 2026", owner)
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Storage")
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Query Planning")
	mat, err := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "B-Tree Notes", FileURL: "materials/test/btree.pdf", FileName: "btree.pdf", UploadedBy: owner,
	})
	if err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}

	// The material lives in the first unit; naming the sibling unit must not
	// be treated as a successful delete.
	err = store.RemoveMaterial(ctx, sub.ID, sub.Units[1].ID, mat.ID)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for material addressed via sibling unit, got %v", err)
	}

	// Unknown material id inside an existing subject/unit pair.
	err = store.RemoveMaterial(ctx, sub.ID, sub.Units[0].ID, primitive.NewObjectID())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown material id, got %v", err)
	}

	// Unknown unit id.
	err = store.RemoveMaterial(ctx, sub.ID, primitive.NewObjectID(), mat.ID)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown unit id, got %v", err)
	}

	if _, _, gotMat, err := store.FindMaterialByID(ctx, mat.ID); err != nil || gotMat.ID != mat.ID {
		t.Errorf("material should survive failed deletes, got %v", err)
	}
}

func TestIncrementView_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Algorithms", "CS375", "Fall 2026", owner)
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Graphs")
	mat, err := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "Dijkstra", FileURL: "materials/test/dij.pdf", FileName: "dij.pdf", UploadedBy: owner,
	})
	if err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}

	const viewers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.IncrementView(ctx, sub.ID, sub.Units[0].ID, mat.ID); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent IncrementView failed: %v", err)
	}

	_, _, got, err := store.FindMaterialByID(ctx, mat.ID)
	if err != nil {
		t.Fatalf("FindMaterialByID failed: %v", err)
	}
	if got.ViewCount != viewers {
		t.Errorf("expected view count %d, got %d", viewers, got.ViewCount)
	}
}

func TestIncrementView_WrongAncestors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Security", "CS461", "Fall 2026", owner)
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Crypto")
	mat, _ := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "RSA", FileURL: "materials/test/rsa.pdf", FileName: "rsa.pdf", UploadedBy: owner,
	})

	_, err := store.IncrementView(ctx, sub.ID, primitive.NewObjectID(), mat.ID)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong unit, got %v", err)
	}
}

func TestFindSubjectMatches_EscapesRegex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, "C++ Programming", "CS210", "Fall 2026", owner); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// "C++" is regex syntax; the term must be treated literally.
	matches, err := store.FindSubjectMatches(ctx, "C++")
	if err != nil {
		t.Fatalf("FindSubjectMatches failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 match for literal C++, got %d", len(matches))
	}

	matches, err = store.FindSubjectMatches(ctx, "(unmatched")
	if err != nil {
		t.Fatalf("FindSubjectMatches with paren failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestFindMaterialTitleMatches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := subjectstore.New(db)
	owner := primitive.NewObjectID()

	sub, _ := store.Create(ctx, "Machine Learning", "CS480", "Fall 2026", owner)
	sub, _, _ = store.AddUnit(ctx, sub.ID, "Regression")
	if _, err := store.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "Gradient Descent Walkthrough", FileURL: "materials/test/gd.pdf", FileName: "gd.pdf", UploadedBy: owner,
	}); err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}

	holders, err := store.FindMaterialTitleMatches(ctx, "gradient")
	if err != nil {
		t.Fatalf("FindMaterialTitleMatches failed: %v", err)
	}
	if len(holders) != 1 {
		t.Fatalf("expected 1 holding subject, got %d", len(holders))
	}
}

func ensureSubjectIndexes(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}
}
