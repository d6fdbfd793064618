// internal/app/features/views/handler.go
package views

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
)

// Handler serves explicit view recording for clients that resolve the
// ancestor chain themselves.
type Handler struct {
	Subjects *subjectstore.Store
	Tracker  *engagement.Tracker
	Log      *zap.Logger
}

// NewHandler constructs a views Handler.
func NewHandler(subjectStore *subjectstore.Store, tracker *engagement.Tracker, logger *zap.Logger) *Handler {
	return &Handler{Subjects: subjectStore, Tracker: tracker, Log: logger}
}

type recordViewRequest struct {
	SubjectID  string `json:"subject_id"`
	UnitID     string `json:"unit_id"`
	MaterialID string `json:"material_id"`
}

type recordViewResponse struct {
	ViewCount int64 `json:"view_count"`
}

// Record handles POST /views. The increment targets the exact ancestor
// chain; a material reachable only under different ancestors is a 404.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	var req recordViewRequest
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
	materialID, err := primitive.ObjectIDFromHex(req.MaterialID)
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed material_id"))
		return
	}

	title := ""
	if sub, err := h.Subjects.GetByID(r.Context(), subjectID); err == nil {
		if unit := sub.Unit(unitID); unit != nil {
			if mat := unit.Material(materialID); mat != nil {
				title = mat.Title
			}
		}
	}

	count, err := h.Tracker.RecordView(r.Context(), studentID, subjectID, unitID, materialID, title)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, recordViewResponse{ViewCount: count})
}
