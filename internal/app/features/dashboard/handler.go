// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/store/activity"
	"github.com/dalemusser/acadhub/internal/app/store/bookmarks"
	"github.com/dalemusser/acadhub/internal/app/store/requests"
	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Handler aggregates per-role dashboard views.
type Handler struct {
	Subjects  *subjectstore.Store
	Users     *userstore.Store
	Bookmarks *bookmarkstore.Store
	Requests  *requeststore.Store
	Activity  *activity.Store
	Log       *zap.Logger
}

// NewHandler constructs a dashboard Handler.
func NewHandler(subjectStore *subjectstore.Store, userStore *userstore.Store, bookmarkStore *bookmarkstore.Store, requestStore *requeststore.Store, activityStore *activity.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Subjects:  subjectStore,
		Users:     userStore,
		Bookmarks: bookmarkStore,
		Requests:  requestStore,
		Activity:  activityStore,
		Log:       logger,
	}
}

type facultyDashboard struct {
	SubjectCount    int                      `json:"subject_count"`
	UnitCount       int                      `json:"unit_count"`
	MaterialCount   int                      `json:"material_count"`
	TotalViews      int64                    `json:"total_views"`
	Subjects        []models.Subject         `json:"subjects"`
	PendingRequests []models.MaterialRequest `json:"pending_requests"`
	RecentActivity  []activity.Event         `json:"recent_activity"`
}

// Faculty handles GET /dashboard/faculty: the caller's subjects with
// content totals, up to 20 pending requests, and the caller's 5 most
// recent activity events.
func (h *Handler) Faculty(w http.ResponseWriter, r *http.Request) {
	_, callerID, _ := authz.UserCtx(r)

	subs, err := h.Subjects.ListByOwner(r.Context(), callerID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	dash := facultyDashboard{
		SubjectCount:    len(subs),
		Subjects:        subs,
		PendingRequests: []models.MaterialRequest{},
		RecentActivity:  []activity.Event{},
	}
	ids := make([]primitive.ObjectID, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
		dash.UnitCount += len(s.Units)
		dash.MaterialCount += s.MaterialCount()
		dash.TotalViews += s.ViewTotal()
	}

	if pending, err := h.Requests.ListPendingForSubjects(r.Context(), ids, 20); err != nil {
		h.Log.Warn("faculty dashboard pending requests failed", zap.Error(err))
	} else if pending != nil {
		dash.PendingRequests = pending
	}

	if events, err := h.Activity.ListByActor(r.Context(), callerID, 5); err != nil {
		h.Log.Warn("faculty dashboard activity failed", zap.Error(err))
	} else if events != nil {
		dash.RecentActivity = events
	}

	httpjson.Respond(w, http.StatusOK, dash)
}

// subjectProgress pairs a subject with the student's completion percentage.
type subjectProgress struct {
	Subject  models.Subject `json:"subject"`
	Progress int            `json:"progress"`
}

// lastOpenedView enriches the stored pointer with display names, when they
// still resolve.
type lastOpenedView struct {
	models.LastOpened
	SubjectName   string `json:"subject_name,omitempty"`
	UnitTitle     string `json:"unit_title,omitempty"`
	MaterialTitle string `json:"material_title,omitempty"`
}

type studentDashboard struct {
	Progress   []subjectProgress        `json:"progress"`
	LastOpened *lastOpenedView          `json:"last_opened,omitempty"`
	Bookmarks  []models.Bookmark        `json:"bookmarks"`
	Requests   []models.MaterialRequest `json:"requests"`
}

// Student handles GET /dashboard/student: progress for every subject, the
// last-opened material, 20 most recent bookmarks, and 10 most recent
// requests.
func (h *Handler) Student(w http.ResponseWriter, r *http.Request) {
	_, studentID, _ := authz.UserCtx(r)

	user, err := h.Users.GetByID(r.Context(), studentID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	subs, err := h.Subjects.List(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	dash := studentDashboard{
		Progress:  make([]subjectProgress, 0, len(subs)),
		Bookmarks: []models.Bookmark{},
		Requests:  []models.MaterialRequest{},
	}
	for _, sub := range subs {
		dash.Progress = append(dash.Progress, subjectProgress{
			Subject:  sub,
			Progress: engagement.SubjectProgress(sub, user.CompletedUnits),
		})
	}

	if user.LastOpened != nil {
		lo := lastOpenedView{LastOpened: *user.LastOpened}
		if sub, err := h.Subjects.GetByID(r.Context(), user.LastOpened.SubjectID); err == nil {
			lo.SubjectName = sub.Name
			if unit := sub.Unit(user.LastOpened.UnitID); unit != nil {
				lo.UnitTitle = unit.Title
				if mat := unit.Material(user.LastOpened.MaterialID); mat != nil {
					lo.MaterialTitle = mat.Title
				}
			}
		}
		dash.LastOpened = &lo
	}

	if bms, err := h.Bookmarks.ListByStudent(r.Context(), studentID, 20); err != nil {
		h.Log.Warn("student dashboard bookmarks failed", zap.Error(err))
	} else if bms != nil {
		dash.Bookmarks = bms
	}

	if reqs, err := h.Requests.ListByStudent(r.Context(), studentID, 10); err != nil {
		h.Log.Warn("student dashboard requests failed", zap.Error(err))
	} else if reqs != nil {
		dash.Requests = reqs
	}

	httpjson.Respond(w, http.StatusOK, dash)
}
