// internal/app/system/engagement/engagement.go
//
// Package engagement records how students interact with materials: view
// counts, the student's last-opened position, and unit completion. The view
// count increment is the primary write; last-opened and activity records are
// best effort and never fail the request.
package engagement

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/activity"
	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Tracker coordinates the stores touched by an engagement event.
type Tracker struct {
	subjects *subjectstore.Store
	users    *userstore.Store
	activity *activity.Store
	log      *zap.Logger
}

// NewTracker wires the tracker.
func NewTracker(subjectStore *subjectstore.Store, userStore *userstore.Store, activityStore *activity.Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		subjects: subjectStore,
		users:    userStore,
		activity: activityStore,
		log:      logger,
	}
}

// RecordView bumps the material's view count and updates the student's
// last-opened pointer. The count increment must succeed; everything after it
// is best effort.
func (t *Tracker) RecordView(ctx context.Context, studentID, subjectID, unitID, materialID primitive.ObjectID, materialTitle string) (int64, error) {
	count, err := t.subjects.IncrementView(ctx, subjectID, unitID, materialID)
	if err != nil {
		return 0, err
	}

	lo := models.LastOpened{
		SubjectID:  subjectID,
		UnitID:     unitID,
		MaterialID: materialID,
		OpenedAt:   time.Now().UTC(),
	}
	if err := t.users.SetLastOpened(ctx, studentID, lo); err != nil {
		t.log.Warn("set last opened failed",
			zap.String("student_id", studentID.Hex()), zap.Error(err))
	}

	if err := t.activity.RecordMaterialViewed(ctx, studentID, subjectID, unitID, materialID, materialTitle); err != nil {
		t.log.Warn("record view activity failed",
			zap.String("student_id", studentID.Hex()), zap.Error(err))
	}

	return count, nil
}

// ToggleUnitCompletion flips the student's completion mark for a unit after
// checking the unit exists, then returns the updated completion list,
// whether the unit is now complete, and the student's progress for the
// subject.
func (t *Tracker) ToggleUnitCompletion(ctx context.Context, studentID, subjectID, unitID primitive.ObjectID) ([]models.CompletedUnit, bool, int, error) {
	sub, err := t.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, false, 0, err
	}
	if sub.Unit(unitID) == nil {
		return nil, false, 0, errs.ErrNotFound
	}

	completed, nowCompleted, err := t.users.ToggleCompletedUnit(ctx, studentID, subjectID, unitID)
	if err != nil {
		return nil, false, 0, err
	}

	return completed, nowCompleted, SubjectProgress(sub, completed), nil
}

// SubjectProgress is the percentage of the subject's units the student has
// completed, rounded to the nearest whole number. A subject with no units
// is 0 percent.
func SubjectProgress(sub models.Subject, completed []models.CompletedUnit) int {
	total := len(sub.Units)
	if total == 0 {
		return 0
	}
	done := 0
	for _, c := range completed {
		if c.SubjectID != sub.ID {
			continue
		}
		if sub.Unit(c.UnitID) != nil {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
