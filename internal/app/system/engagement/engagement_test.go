// internal/app/system/engagement/engagement_test.go
package engagement_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/acadhub/internal/app/store/activity"
	subjectstore "github.com/dalemusser/acadhub/internal/app/store/subjects"
	userstore "github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func TestSubjectProgress_Rounding(t *testing.T) {
	sub := models.Subject{ID: primitive.NewObjectID()}
	for i := 0; i < 3; i++ {
		sub.Units = append(sub.Units, models.Unit{ID: primitive.NewObjectID()})
	}

	none := engagement.SubjectProgress(sub, nil)
	if none != 0 {
		t.Errorf("expected 0%% with no completions, got %d", none)
	}

	// 1 of 3 is 33.33..., rounded to 33.
	one := engagement.SubjectProgress(sub, []models.CompletedUnit{
		{SubjectID: sub.ID, UnitID: sub.Units[0].ID},
	})
	if one != 33 {
		t.Errorf("expected 33%%, got %d", one)
	}

	// 2 of 3 is 66.66..., rounded to 67.
	two := engagement.SubjectProgress(sub, []models.CompletedUnit{
		{SubjectID: sub.ID, UnitID: sub.Units[0].ID},
		{SubjectID: sub.ID, UnitID: sub.Units[1].ID},
	})
	if two != 67 {
		t.Errorf("expected 67%%, got %d", two)
	}
}

func TestSubjectProgress_NoUnits(t *testing.T) {
	sub := models.Subject{ID: primitive.NewObjectID()}
	if got := engagement.SubjectProgress(sub, nil); got != 0 {
		t.Errorf("expected 0%% for a subject with no units, got %d", got)
	}
}

func TestSubjectProgress_IgnoresOtherSubjectsAndStaleUnits(t *testing.T) {
	sub := models.Subject{ID: primitive.NewObjectID()}
	sub.Units = append(sub.Units, models.Unit{ID: primitive.NewObjectID()})

	got := engagement.SubjectProgress(sub, []models.CompletedUnit{
		// Different subject entirely.
		{SubjectID: primitive.NewObjectID(), UnitID: sub.Units[0].ID},
		// Unit that no longer exists on the subject.
		{SubjectID: sub.ID, UnitID: primitive.NewObjectID()},
	})
	if got != 0 {
		t.Errorf("expected 0%%, got %d", got)
	}
}

func TestRecordView_UpdatesCountAndLastOpened(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjects := subjectstore.New(db)
	users := userstore.New(db)
	activities := activity.New(db)
	tracker := engagement.NewTracker(subjects, users, activities, nil)

	fx := testutil.NewFixtures(t, db)
	student := fx.CreateUser(ctx, "Student", "view@example.edu", "student")
	owner := primitive.NewObjectID()

	sub, _ := subjects.Create(ctx, "Graphics", "CS418", "Fall 2026", owner)
	sub, _, _ = subjects.AddUnit(ctx, sub.ID, "Rasterization")
	mat, err := subjects.AddMaterial(ctx, sub.ID, sub.Units[0].ID, models.Material{
		Title: "Scanline Notes", FileURL: "materials/test/scan.pdf", FileName: "scan.pdf", UploadedBy: owner,
	})
	if err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}

	count, err := tracker.RecordView(ctx, student.ID, sub.ID, sub.Units[0].ID, mat.ID, mat.Title)
	if err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected view count 1, got %d", count)
	}

	got, err := users.GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LastOpened == nil || got.LastOpened.MaterialID != mat.ID {
		t.Errorf("last opened not recorded: %+v", got.LastOpened)
	}
}

func TestToggleUnitCompletion_UnknownUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjects := subjectstore.New(db)
	users := userstore.New(db)
	tracker := engagement.NewTracker(subjects, users, activity.New(db), nil)

	fx := testutil.NewFixtures(t, db)
	student := fx.CreateUser(ctx, "Student", "toggle@example.edu", "student")
	sub, _ := subjects.Create(ctx, "Theory", "CS473", "Fall 2026", primitive.NewObjectID())

	_, _, _, err := tracker.ToggleUnitCompletion(ctx, student.ID, sub.ID, primitive.NewObjectID())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown unit, got %v", err)
	}
}

func TestToggleUnitCompletion_Progress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjects := subjectstore.New(db)
	users := userstore.New(db)
	tracker := engagement.NewTracker(subjects, users, activity.New(db), nil)

	fx := testutil.NewFixtures(t, db)
	student := fx.CreateUser(ctx, "Student", "progress@example.edu", "student")

	sub, _ := subjects.Create(ctx, "Numerical Methods", "CS450", "Fall 2026", primitive.NewObjectID())
	sub, _, _ = subjects.AddUnit(ctx, sub.ID, "Interpolation")
	sub, _, _ = subjects.AddUnit(ctx, sub.ID, "Quadrature")

	_, nowCompleted, pct, err := tracker.ToggleUnitCompletion(ctx, student.ID, sub.ID, sub.Units[0].ID)
	if err != nil {
		t.Fatalf("ToggleUnitCompletion failed: %v", err)
	}
	if !nowCompleted || pct != 50 {
		t.Errorf("expected completed at 50%%, got completed=%v pct=%d", nowCompleted, pct)
	}

	_, nowCompleted, pct, err = tracker.ToggleUnitCompletion(ctx, student.ID, sub.ID, sub.Units[0].ID)
	if err != nil {
		t.Fatalf("second ToggleUnitCompletion failed: %v", err)
	}
	if nowCompleted || pct != 0 {
		t.Errorf("expected un-completed at 0%%, got completed=%v pct=%d", nowCompleted, pct)
	}
}
