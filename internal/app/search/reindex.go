// internal/app/search/reindex.go
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/tasks"
)

// ReindexJob returns the periodic job that rebuilds index documents from the
// subject store. The store is the system of record, so a drifted or wiped
// index heals on the next run. The job is a no-op while the index is
// unavailable.
func ReindexJob(adapter *Adapter, store *subjectstore.Store, interval time.Duration) tasks.Job {
	return tasks.Job{
		Name:     "search reindex",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if !adapter.Available() {
				return nil
			}

			subs, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("search: reindex list subjects: %w", err)
			}

			for _, sub := range subs {
				if err := adapter.UpsertSubject(ctx, sub); err != nil {
					return fmt.Errorf("search: reindex subject %s: %w", sub.ID.Hex(), err)
				}
				for _, unit := range sub.Units {
					for _, mat := range unit.Materials {
						if err := adapter.UpsertMaterial(ctx, sub, unit, mat); err != nil {
							return fmt.Errorf("search: reindex material %s: %w", mat.ID.Hex(), err)
						}
					}
				}
			}
			return nil
		},
	}
}
