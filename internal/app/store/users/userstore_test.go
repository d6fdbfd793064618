// internal/app/store/users/userstore_test.go
package userstore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/indexes"
	"github.com/dalemusser/acadhub/internal/domain/models"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}

	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{
		FullName: "Ada Lovelace", Email: "ada@example.edu", PasswordHash: "h", Role: "faculty",
	}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{
		FullName: "Other Ada", Email: "ADA@example.edu", PasswordHash: "h", Role: "student",
	})
	if !errors.Is(err, errs.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{
		FullName: "Grace Hopper", Email: "grace@example.edu", PasswordHash: "h", Role: "admin",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "  GRACE@example.edu ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID.Hex(), got.ID.Hex())
	}
}

func TestToggleCompletedUnit_Involution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Student One", "s1@example.edu", "student")

	subject := primitive.NewObjectID()
	unit := primitive.NewObjectID()

	completed, nowCompleted, err := store.ToggleCompletedUnit(ctx, user.ID, subject, unit)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !nowCompleted || len(completed) != 1 {
		t.Fatalf("expected unit completed after first toggle, got completed=%v list=%d", nowCompleted, len(completed))
	}

	completed, nowCompleted, err = store.ToggleCompletedUnit(ctx, user.ID, subject, unit)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if nowCompleted || len(completed) != 0 {
		t.Errorf("expected original state restored after second toggle, got completed=%v list=%d", nowCompleted, len(completed))
	}
}

func TestSetLastOpened(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	user := fx.CreateUser(ctx, "Student Two", "s2@example.edu", "student")

	lo := models.LastOpened{
		SubjectID:  primitive.NewObjectID(),
		UnitID:     primitive.NewObjectID(),
		MaterialID: primitive.NewObjectID(),
		OpenedAt:   time.Now().UTC(),
	}
	if err := store.SetLastOpened(ctx, user.ID, lo); err != nil {
		t.Fatalf("SetLastOpened failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LastOpened == nil || got.LastOpened.MaterialID != lo.MaterialID {
		t.Errorf("last opened pointer not persisted: %+v", got.LastOpened)
	}

	err = store.SetLastOpened(ctx, primitive.NewObjectID(), lo)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
