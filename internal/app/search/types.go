// internal/app/search/types.go
//
// Package search keeps the external search index in sync with the subject
// aggregate and answers keyword queries, falling back to a store-backed
// engine when the index is unavailable. The documents here are denormalized
// projections of the aggregate — a rebuildable cache, never authoritative.
package search

import (
	"context"
	"time"

	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Index names for the external engine.
const (
	subjectIndex  = "acadhub-subjects"
	materialIndex = "acadhub-materials"
)

// UnitRef is the unit projection embedded in a SubjectDoc.
type UnitRef struct {
	UnitID string `json:"unitId"`
	Title  string `json:"title"`
}

// SubjectDoc is the denormalized subject projection held in the index.
type SubjectDoc struct {
	SubjectID string    `json:"subjectId"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Semester  string    `json:"semester"`
	CreatedBy string    `json:"createdBy"`
	Units     []UnitRef `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaterialDoc is the denormalized material projection held in the index.
// Parent subject and unit names are copied in so one hit renders without
// another lookup.
type MaterialDoc struct {
	MaterialID  string    `json:"materialId"`
	SubjectID   string    `json:"subjectId"`
	UnitID      string    `json:"unitId"`
	SubjectName string    `json:"subjectName"`
	SubjectCode string    `json:"subjectCode"`
	UnitTitle   string    `json:"unitTitle"`
	Title       string    `json:"title"`
	FileURL     string    `json:"fileUrl"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubjectHit is one ranked subject result. Score is nil when the fallback
// engine produced the hit (fallback results are unranked).
type SubjectHit struct {
	SubjectDoc
	Score *float64 `json:"score"`
}

// MaterialHit is one ranked material result.
type MaterialHit struct {
	MaterialDoc
	Score *float64 `json:"score"`
}

// Results is the response shape every search path produces. Degraded is set
// when the fallback engine answered instead of the external index.
type Results struct {
	Subjects  []SubjectHit  `json:"subjects"`
	Materials []MaterialHit `json:"materials"`
	Degraded  bool          `json:"degraded"`
}

// emptyResults returns a non-nil, zero-hit result set.
func emptyResults(degraded bool) Results {
	return Results{
		Subjects:  []SubjectHit{},
		Materials: []MaterialHit{},
		Degraded:  degraded,
	}
}

// Engine is one search strategy: the external index or the store fallback.
type Engine interface {
	// Available reports whether the engine can be asked at all.
	Available() bool
	// Query runs a keyword search. Errors signal the orchestrator to try
	// the next engine, never the caller.
	Query(ctx context.Context, term string) (Results, error)
}

// NewSubjectDoc projects a subject aggregate into its index document.
func NewSubjectDoc(sub models.Subject) SubjectDoc {
	units := make([]UnitRef, 0, len(sub.Units))
	for _, u := range sub.Units {
		units = append(units, UnitRef{UnitID: u.ID.Hex(), Title: u.Title})
	}
	return SubjectDoc{
		SubjectID: sub.ID.Hex(),
		Name:      sub.Name,
		Code:      sub.Code,
		Semester:  sub.Semester,
		CreatedBy: sub.CreatedBy.Hex(),
		Units:     units,
		CreatedAt: sub.CreatedAt,
	}
}

// NewMaterialDoc projects a material and its ancestors into an index document.
func NewMaterialDoc(sub models.Subject, unit models.Unit, mat models.Material) MaterialDoc {
	return MaterialDoc{
		MaterialID:  mat.ID.Hex(),
		SubjectID:   sub.ID.Hex(),
		UnitID:      unit.ID.Hex(),
		SubjectName: sub.Name,
		SubjectCode: sub.Code,
		UnitTitle:   unit.Title,
		Title:       mat.Title,
		FileURL:     mat.FileURL,
		UploadedBy:  mat.UploadedBy.Hex(),
		CreatedAt:   mat.CreatedAt,
	}
}

// materialDocID is the composite identity of a material document in the
// index: materials are addressed by their full ancestor chain.
func materialDocID(subjectID, unitID, materialID string) string {
	return subjectID + "-" + unitID + "-" + materialID
}
