// internal/app/features/subjects/handler.go
package subjects

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/activity"
	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// maxUploadBytes bounds material uploads.
const maxUploadBytes = 32 << 20

// Handler serves the subject aggregate: subjects, their units, and the
// materials inside them.
type Handler struct {
	Subjects *subjectstore.Store
	Activity *activity.Store
	Storage  storage.Store
	Log      *zap.Logger
}

// NewHandler constructs a subjects Handler.
func NewHandler(subjectStore *subjectstore.Store, activityStore *activity.Store, fileStore storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Subjects: subjectStore,
		Activity: activityStore,
		Storage:  fileStore,
		Log:      logger,
	}
}

// List handles GET /subjects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Subjects.List(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, subs)
}

// Get handles GET /subjects/{subjectID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	sub, err := h.Subjects.GetByID(r.Context(), subjectID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, sub)
}

type createSubjectRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Semester string `json:"semester"`
}

// Create handles POST /subjects.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, callerID, _ := authz.UserCtx(r)

	var req createSubjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	sub, err := h.Subjects.Create(r.Context(),
		htmlsanitize.Strip(req.Name),
		htmlsanitize.Strip(req.Code),
		htmlsanitize.Strip(req.Semester),
		callerID,
	)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	if err := h.Activity.RecordSubjectCreated(r.Context(), callerID, sub.ID, sub.Name); err != nil {
		h.Log.Warn("record subject activity failed", zap.Error(err))
	}

	h.Log.Info("subject created",
		zap.String("subject_id", sub.ID.Hex()), zap.String("code", sub.Code))
	httpjson.Respond(w, http.StatusCreated, sub)
}

type addUnitRequest struct {
	Title string `json:"title"`
}

// AddUnit handles POST /subjects/{subjectID}/units.
func (h *Handler) AddUnit(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if err := h.requireOwnership(r, subjectID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	var req addUnitRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	sub, unit, err := h.Subjects.AddUnit(r.Context(), subjectID, htmlsanitize.Strip(req.Title))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	_, callerID, _ := authz.UserCtx(r)
	if err := h.Activity.RecordUnitAdded(r.Context(), callerID, subjectID, unit.ID, unit.Title); err != nil {
		h.Log.Warn("record unit activity failed", zap.Error(err))
	}

	httpjson.Respond(w, http.StatusCreated, sub)
}

// AddMaterial handles POST /subjects/{subjectID}/units/{unitID}/materials.
// The request is multipart: a "title" field and a "file" part. The file is
// written to storage before the aggregate is touched, so a failed insert
// leaves at worst an orphaned file, never a dangling reference.
func (h *Handler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	unitID, err := pathID(r, "unitID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if err := h.requireOwnership(r, subjectID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("invalid multipart request: %v", err))
		return
	}

	// Validate the title before the blob is written so a rejected request
	// cannot orphan an upload.
	title := htmlsanitize.Strip(r.FormValue("title"))
	if title == "" {
		httpjson.Error(w, r, h.Log, errs.Validationf("material title is required"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, r, h.Log, errs.Validationf("a file part is required"))
		return
	}
	defer file.Close()

	path := uploadPath(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := h.Storage.Put(r.Context(), path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		httpjson.Error(w, r, h.Log, fmt.Errorf("store upload: %w", err))
		return
	}

	_, callerID, _ := authz.UserCtx(r)
	mat, err := h.Subjects.AddMaterial(r.Context(), subjectID, unitID, models.Material{
		Title:      title,
		FileURL:    path,
		FileName:   filepath.Base(header.Filename),
		FileSize:   header.Size,
		UploadedBy: callerID,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	if err := h.Activity.RecordMaterialAdded(r.Context(), callerID, subjectID, unitID, mat.ID, mat.Title); err != nil {
		h.Log.Warn("record material activity failed", zap.Error(err))
	}

	h.Log.Info("material added",
		zap.String("subject_id", subjectID.Hex()),
		zap.String("unit_id", unitID.Hex()),
		zap.String("material_id", mat.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, mat)
}

// DeleteMaterial handles DELETE /subjects/{subjectID}/units/{unitID}/materials/{materialID}.
// The stored file is left in place; the reindex cycle and storage cleanup
// are separate concerns from the aggregate mutation.
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "subjectID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	unitID, err := pathID(r, "unitID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	materialID, err := pathID(r, "materialID")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if err := h.requireOwnership(r, subjectID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	if err := h.Subjects.RemoveMaterial(r.Context(), subjectID, unitID, materialID); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info("material removed",
		zap.String("subject_id", subjectID.Hex()),
		zap.String("material_id", materialID.Hex()))
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// requireOwnership lets admins through and faculty only for subjects they
// created.
func (h *Handler) requireOwnership(r *http.Request, subjectID primitive.ObjectID) error {
	role, callerID, ok := authz.UserCtx(r)
	if !ok {
		return errs.ErrForbidden
	}
	if role == authz.RoleAdmin {
		return nil
	}
	sub, err := h.Subjects.GetByID(r.Context(), subjectID)
	if err != nil {
		return err
	}
	if sub.CreatedBy != callerID {
		return errs.ErrForbidden
	}
	return nil
}

// uploadPath builds a collision-free storage path for an upload.
func uploadPath(filename string) string {
	now := time.Now().UTC()
	unique := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	return fmt.Sprintf("materials/%04d/%02d/%s", now.Year(), now.Month(), unique)
}

// sanitizeFilename keeps a safe subset of filename characters and bounds the
// length, preserving the extension when truncating.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, errs.Validationf("malformed %s", name)
	}
	return id, nil
}
