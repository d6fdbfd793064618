// internal/app/features/bookmarks/handler.go
package bookmarks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/bookmarks"
	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/app/system/paging"
)

// Handler serves a student's bookmarks.
type Handler struct {
	Bookmarks *bookmarkstore.Store
	Subjects  *subjectstore.Store
	Log       *zap.Logger
}

// NewHandler constructs a bookmarks Handler.
func NewHandler(bookmarkStore *bookmarkstore.Store, subjectStore *subjectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Bookmarks: bookmarkStore, Subjects: subjectStore, Log: logger}
}

type createBookmarkRequest struct {
	SubjectID  string `json:"subject_id"`
	UnitID     string `json:"unit_id"`
	MaterialID string `json:"material_id"`
}

// Create handles POST /bookmarks. The material must exist under the given
// ancestors, and bookmarking the same material twice returns the existing
// bookmark rather than a duplicate.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	var req createBookmarkRequest
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

	// Validate the full ancestor chain before writing.
	sub, err := h.Subjects.GetByID(r.Context(), subjectID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	unit := sub.Unit(unitID)
	if unit == nil || unit.Material(materialID) == nil {
		httpjson.Error(w, r, h.Log, errs.ErrNotFound)
		return
	}

	bm, err := h.Bookmarks.Upsert(r.Context(), studentID, subjectID, unitID, materialID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, bm)
}

// List handles GET /bookmarks, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	list, err := h.Bookmarks.ListByStudent(r.Context(), studentID, paging.ParseLimit(r))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// Delete handles DELETE /bookmarks/{bookmarkID}. Students can only remove
// their own bookmarks; anything else is a 404.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	bookmarkID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookmarkID"))
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed bookmark id"))
		return
	}

	if err := h.Bookmarks.Delete(r.Context(), bookmarkID, studentID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
