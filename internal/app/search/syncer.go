// internal/app/search/syncer.go
package search

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/acadhub/internal/app/system/tasks"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Syncer receives store mutation notifications and pushes the matching
// index writes onto the background runner. Notifications never block and
// their failures never surface to the mutation that caused them.
type Syncer struct {
	adapter *Adapter
	runner  *tasks.Runner
}

// NewSyncer builds a syncer over the index adapter and task runner.
func NewSyncer(adapter *Adapter, runner *tasks.Runner) *Syncer {
	return &Syncer{adapter: adapter, runner: runner}
}

// SubjectUpserted reindexes the subject projection and every material it
// holds, since material documents copy subject name and code.
func (s *Syncer) SubjectUpserted(sub models.Subject) {
	if !s.adapter.Available() {
		return
	}
	s.runner.Enqueue(tasks.Task{
		Name: "index subject " + sub.ID.Hex(),
		Run: func(ctx context.Context) error {
			if err := s.adapter.UpsertSubject(ctx, sub); err != nil {
				return err
			}
			for _, unit := range sub.Units {
				for _, mat := range unit.Materials {
					if err := s.adapter.UpsertMaterial(ctx, sub, unit, mat); err != nil {
						return err
					}
				}
			}
			return nil
		},
	})
}

// MaterialAdded indexes a single new material document.
func (s *Syncer) MaterialAdded(sub models.Subject, unit models.Unit, mat models.Material) {
	if !s.adapter.Available() {
		return
	}
	s.runner.Enqueue(tasks.Task{
		Name: "index material " + mat.ID.Hex(),
		Run: func(ctx context.Context) error {
			return s.adapter.UpsertMaterial(ctx, sub, unit, mat)
		},
	})
}

// MaterialRemoved deletes the material document from the index.
func (s *Syncer) MaterialRemoved(subjectID, unitID, materialID primitive.ObjectID) {
	if !s.adapter.Available() {
		return
	}
	s.runner.Enqueue(tasks.Task{
		Name: "unindex material " + materialID.Hex(),
		Run: func(ctx context.Context) error {
			return s.adapter.DeleteMaterial(ctx, subjectID.Hex(), unitID.Hex(), materialID.Hex())
		},
	})
}
