// internal/app/features/materials/handler.go
package materials

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Handler serves direct material access by ID, independent of the caller
// knowing the ancestor chain.
type Handler struct {
	Subjects *subjectstore.Store
	Tracker  *engagement.Tracker
	Storage  storage.Store
	Log      *zap.Logger
}

// NewHandler constructs a materials Handler.
func NewHandler(subjectStore *subjectstore.Store, tracker *engagement.Tracker, fileStore storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Subjects: subjectStore,
		Tracker:  tracker,
		Storage:  fileStore,
		Log:      logger,
	}
}

// materialResponse carries the material with its resolved ancestors.
type materialResponse struct {
	Material    models.Material `json:"material"`
	SubjectID   string          `json:"subject_id"`
	SubjectName string          `json:"subject_name"`
	SubjectCode string          `json:"subject_code"`
	UnitID      string          `json:"unit_id"`
	UnitTitle   string          `json:"unit_title"`
}

// Get handles GET /materials/{materialID}. When a student opens a material
// the view is recorded; faculty and admin reads do not count.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	materialID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "materialID"))
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed material id"))
		return
	}

	sub, unit, mat, err := h.Subjects.FindMaterialByID(r.Context(), materialID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	role, callerID, _ := authz.UserCtx(r)
	if role == authz.RoleStudent {
		if count, err := h.Tracker.RecordView(r.Context(), callerID, sub.ID, unit.ID, mat.ID, mat.Title); err != nil {
			h.Log.Warn("record view failed",
				zap.String("material_id", mat.ID.Hex()), zap.Error(err))
		} else {
			mat.ViewCount = count
		}
	}

	httpjson.Respond(w, http.StatusOK, materialResponse{
		Material:    mat,
		SubjectID:   sub.ID.Hex(),
		SubjectName: sub.Name,
		SubjectCode: sub.Code,
		UnitID:      unit.ID.Hex(),
		UnitTitle:   unit.Title,
	})
}

// Download handles GET /materials/{materialID}/download. Local storage
// serves the file directly; other backends redirect to a short-lived
// signed URL.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	materialID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "materialID"))
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("malformed material id"))
		return
	}

	_, _, mat, err := h.Subjects.FindMaterialByID(r.Context(), materialID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	contentDisposition := fmt.Sprintf("attachment; filename=%q", mat.FileName)

	// Downloads must not be cached; files can be replaced under the same id.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(mat.FileURL)
		if err != nil {
			httpjson.Error(w, r, h.Log, fmt.Errorf("locate file: %w", err))
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Storage.PresignedURL(r.Context(), mat.FileURL, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, fmt.Errorf("sign download url: %w", err))
		return
	}
	http.Redirect(w, r, signedURL, http.StatusTemporaryRedirect)
}
