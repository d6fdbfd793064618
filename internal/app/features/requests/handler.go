// internal/app/features/requests/handler.go
package requests

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/activity"
	"github.com/dalemusser/acadhub/internal/app/store/requests"
	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/app/system/paging"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Handler serves material requests.
type Handler struct {
	Requests *requeststore.Store
	Subjects *subjectstore.Store
	Activity *activity.Store
	Log      *zap.Logger
}

// NewHandler constructs a requests Handler.
func NewHandler(requestStore *requeststore.Store, subjectStore *subjectstore.Store, activityStore *activity.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: requestStore,
		Subjects: subjectStore,
		Activity: activityStore,
		Log:      logger,
	}
}

type createRequestRequest struct {
	SubjectID      string `json:"subject_id"`
	UnitID         string `json:"unit_id"`
	RequestedTitle string `json:"requested_title"`
	Description    string `json:"description"`
}

// Create handles POST /requests. Students ask for material under an
// existing subject and unit.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	var req createRequestRequest
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

	sub, err := h.Subjects.GetByID(r.Context(), subjectID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if sub.Unit(unitID) == nil {
		httpjson.Error(w, r, h.Log, errs.ErrNotFound)
		return
	}

	created, err := h.Requests.Create(r.Context(), models.MaterialRequest{
		StudentID:      studentID,
		SubjectID:      subjectID,
		UnitID:         unitID,
		RequestedTitle: htmlsanitize.Strip(req.RequestedTitle),
		Description:    htmlsanitize.Sanitize(req.Description),
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	if err := h.Activity.RecordMaterialRequested(r.Context(), studentID, subjectID, unitID, created.RequestedTitle); err != nil {
		h.Log.Warn("record request activity failed", zap.Error(err))
	}

	httpjson.Respond(w, http.StatusCreated, created)
}

// ListMine handles GET /requests/mine for students, newest first.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	list, err := h.Requests.ListByStudent(r.Context(), studentID, paging.ParseLimit(r))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// ListPending handles GET /requests/pending. Faculty see pending requests
// against their own subjects; admins see pending requests for everything.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	role, callerID, _ := authz.UserCtx(r)

	var subs []models.Subject
	var err error
	if role == authz.RoleAdmin {
		subs, err = h.Subjects.List(r.Context())
	} else {
		subs, err = h.Subjects.ListByOwner(r.Context(), callerID)
	}
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
	}

	list, err := h.Requests.ListPendingForSubjects(r.Context(), ids, paging.ParseLimit(r))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// Resolve handles PATCH /requests/{requestID}/resolve. Only the owner of the
// parent subject (or an admin) may resolve; resolving an already-resolved
// request is a no-op that returns the resolved request.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	role, callerID, _ := authz.UserCtx(r)

	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed request id"))
		return
	}

	req, err := h.Requests.GetByID(r.Context(), requestID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	if role != authz.RoleAdmin {
		sub, err := h.Subjects.GetByID(r.Context(), req.SubjectID)
		if err != nil {
			httpjson.Error(w, r, h.Log, err)
			return
		}
		if sub.CreatedBy != callerID {
			httpjson.Error(w, r, h.Log, errs.ErrForbidden)
			return
		}
	}

	resolved, err := h.Requests.Resolve(r.Context(), requestID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, resolved)
}
