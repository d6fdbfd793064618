// internal/app/store/requests/requeststore_test.go
package requeststore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	requeststore "github.com/dalemusser/acadhub/internal/app/store/requests"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func TestCreate_DefaultsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := requeststore.New(db)
	req, err := store.Create(ctx, models.MaterialRequest{
		StudentID:      primitive.NewObjectID(),
		SubjectID:      primitive.NewObjectID(),
		UnitID:         primitive.NewObjectID(),
		RequestedTitle: "  Lecture recordings  ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
	if req.RequestedTitle != "Lecture recordings" {
		t.Errorf("expected trimmed title, got %q", req.RequestedTitle)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := requeststore.New(db)
	_, err := store.Create(ctx, models.MaterialRequest{
		StudentID: primitive.NewObjectID(),
		SubjectID: primitive.NewObjectID(),
		UnitID:    primitive.NewObjectID(),
	})
	if !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty title, got %v", err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := requeststore.New(db)
	req, err := store.Create(ctx, models.MaterialRequest{
		StudentID:      primitive.NewObjectID(),
		SubjectID:      primitive.NewObjectID(),
		UnitID:         primitive.NewObjectID(),
		RequestedTitle: "Past exams",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, err := store.Resolve(ctx, req.ID)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	if first.Status != models.RequestResolved || first.ResolvedAt == nil {
		t.Fatalf("expected resolved request, got %+v", first)
	}

	second, err := store.Resolve(ctx, req.ID)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if second.Status != models.RequestResolved {
		t.Errorf("expected resolved status on repeat, got %q", second.Status)
	}
	if !second.ResolvedAt.Equal(*first.ResolvedAt) {
		t.Errorf("expected resolve timestamp unchanged, got %v then %v", first.ResolvedAt, second.ResolvedAt)
	}
}

func TestListPendingForSubjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := requeststore.New(db)
	subjectA := primitive.NewObjectID()
	subjectB := primitive.NewObjectID()

	reqA, _ := store.Create(ctx, models.MaterialRequest{
		StudentID: primitive.NewObjectID(), SubjectID: subjectA, UnitID: primitive.NewObjectID(),
		RequestedTitle: "Slides",
	})
	if _, err := store.Create(ctx, models.MaterialRequest{
		StudentID: primitive.NewObjectID(), SubjectID: subjectB, UnitID: primitive.NewObjectID(),
		RequestedTitle: "Worksheets",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Resolve(ctx, reqA.ID); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	pending, err := store.ListPendingForSubjects(ctx, []primitive.ObjectID{subjectA, subjectB}, 0)
	if err != nil {
		t.Fatalf("ListPendingForSubjects failed: %v", err)
	}
	if len(pending) != 1 || pending[0].SubjectID != subjectB {
		t.Errorf("expected only subject B's pending request, got %+v", pending)
	}

	none, err := store.ListPendingForSubjects(ctx, nil, 0)
	if err != nil {
		t.Fatalf("ListPendingForSubjects with no subjects failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty result for no subjects, got %d", len(none))
	}
}
