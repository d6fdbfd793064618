// internal/app/features/progress/handler.go
package progress

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Handler serves unit completion toggling for students.
type Handler struct {
	Tracker *engagement.Tracker
	Log     *zap.Logger
}

// NewHandler constructs a progress Handler.
func NewHandler(tracker *engagement.Tracker, logger *zap.Logger) *Handler {
	return &Handler{Tracker: tracker, Log: logger}
}

type toggleRequest struct {
	SubjectID string `json:"subject_id"`
	UnitID    string `json:"unit_id"`
}

type toggleResponse struct {
	Completed      bool                   `json:"completed"`
	Progress       int                    `json:"progress"`
	CompletedUnits []models.CompletedUnit `json:"completed_units"`
}

// Toggle handles POST /progress/toggle. Toggling twice restores the
// original state.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	var req toggleRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	subjectID, err := primitive.ObjectIDFromHex(req.SubjectID)
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed subject_id"))
		return
	}
	unitID, err := primitive.ObjectIDFromHex(req.UnitID)
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed unit_id"))
		return
	}

	completed, nowCompleted, pct, err := h.Tracker.ToggleUnitCompletion(r.Context(), studentID, subjectID, unitID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, toggleResponse{
		Completed:      nowCompleted,
		Progress:       pct,
		CompletedUnits: completed,
	})
}
