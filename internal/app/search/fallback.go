// internal/app/search/fallback.go
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/acadhub/internal/app/store/subjects"
)

// Fallback answers queries from the subject store when the external index
// cannot. Matching is case-insensitive substring, results carry no scores,
// and every result set is marked degraded by the orchestrator.
type Fallback struct {
	subjects *subjectstore.Store
}

// NewFallback builds the store-backed engine.
func NewFallback(store *subjectstore.Store) *Fallback {
	return &Fallback{subjects: store}
}

// Available always reports true; the store is the system of record.
func (f *Fallback) Available() bool { return true }

// Query scans subjects and their embedded materials for the term. Material
// hits are collected independently of whether the parent subject matched.
func (f *Fallback) Query(ctx context.Context, term string) (Results, error) {
	out := emptyResults(true)
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return out, nil
	}

	subs, err := f.subjects.FindSubjectMatches(ctx, term)
	if err != nil {
		return emptyResults(true), fmt.Errorf("search: fallback subjects: %w", err)
	}
	for _, sub := range subs {
		out.Subjects = append(out.Subjects, SubjectHit{SubjectDoc: NewSubjectDoc(sub)})
	}

	holders, err := f.subjects.FindMaterialTitleMatches(ctx, term)
	if err != nil {
		return emptyResults(true), fmt.Errorf("search: fallback materials: %w", err)
	}
	for _, sub := range holders {
		for _, unit := range sub.Units {
			for _, mat := range unit.Materials {
				if strings.Contains(strings.ToLower(mat.Title), needle) {
					out.Materials = append(out.Materials, MaterialHit{
						MaterialDoc: NewMaterialDoc(sub, unit, mat),
					})
				}
			}
		}
	}

	return out, nil
}
