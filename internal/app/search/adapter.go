// internal/app/search/adapter.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/timeouts"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Adapter is the Elasticsearch-backed engine. A nil client means the node
// was not configured or could not be constructed at startup; the adapter
// then reports unavailable and every write becomes a no-op.
type Adapter struct {
	es  *elasticsearch.Client
	log *zap.Logger
}

// NewAdapter wraps an Elasticsearch client. client may be nil.
func NewAdapter(client *elasticsearch.Client, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{es: client, log: logger}
}

// Available reports whether a client was constructed at startup.
func (a *Adapter) Available() bool {
	return a != nil && a.es != nil
}

// UpsertSubject writes the subject projection to the index, replacing any
// previous version of the document.
func (a *Adapter) UpsertSubject(ctx context.Context, sub models.Subject) error {
	doc := NewSubjectDoc(sub)
	return a.indexDoc(ctx, subjectIndex, doc.SubjectID, doc)
}

// UpsertMaterial writes the material projection to the index.
func (a *Adapter) UpsertMaterial(ctx context.Context, sub models.Subject, unit models.Unit, mat models.Material) error {
	doc := NewMaterialDoc(sub, unit, mat)
	return a.indexDoc(ctx, materialIndex, materialDocID(doc.SubjectID, doc.UnitID, doc.MaterialID), doc)
}

// DeleteMaterial removes a material document. A missing document is not an
// error: the delete may race a reindex or the document may never have been
// written.
func (a *Adapter) DeleteMaterial(ctx context.Context, subjectID, unitID, materialID string) error {
	if !a.Available() {
		return errs.ErrIndexUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Search())
	defer cancel()

	res, err := a.es.Delete(materialIndex, materialDocID(subjectID, unitID, materialID),
		a.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete material: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("search: delete material: %s", res.Status())
	}
	return nil
}

func (a *Adapter) indexDoc(ctx context.Context, index, id string, doc any) error {
	if !a.Available() {
		return errs.ErrIndexUnavailable
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search: encode document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Search())
	defer cancel()

	res, err := a.es.Index(index,
		bytes.NewReader(body),
		a.es.Index.WithContext(ctx),
		a.es.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("search: index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search: index document: %s", res.Status())
	}
	return nil
}

// Query searches both indices with weighted multi-field matching. Subject
// code outweighs name so exact-ish code lookups surface first.
func (a *Adapter) Query(ctx context.Context, term string) (Results, error) {
	if !a.Available() {
		return emptyResults(false), errs.ErrIndexUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Search())
	defer cancel()

	out := emptyResults(false)

	subjects, err := a.searchIndex(ctx, subjectIndex, term,
		[]string{"name^3", "code^4", "semester", "units.title"})
	if err != nil {
		return emptyResults(false), err
	}
	for _, h := range subjects {
		var doc SubjectDoc
		if err := json.Unmarshal(h.source, &doc); err != nil {
			return emptyResults(false), fmt.Errorf("search: decode subject hit: %w", err)
		}
		out.Subjects = append(out.Subjects, SubjectHit{SubjectDoc: doc, Score: h.score})
	}

	materials, err := a.searchIndex(ctx, materialIndex, term,
		[]string{"title^3", "unitTitle", "subjectName", "subjectCode"})
	if err != nil {
		return emptyResults(false), err
	}
	for _, h := range materials {
		var doc MaterialDoc
		if err := json.Unmarshal(h.source, &doc); err != nil {
			return emptyResults(false), fmt.Errorf("search: decode material hit: %w", err)
		}
		out.Materials = append(out.Materials, MaterialHit{MaterialDoc: doc, Score: h.score})
	}

	return out, nil
}

type rawHit struct {
	score  *float64
	source json.RawMessage
}

func (a *Adapter) searchIndex(ctx context.Context, index, term string, fields []string) ([]rawHit, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     term,
				"fields":    fields,
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(index),
		a.es.Search.WithBody(&buf),
		a.es.Search.WithSize(25),
	)
	if err != nil {
		return nil, fmt.Errorf("search: query %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// An index that has not been created yet just means no hits.
		if res.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("search: query %s: %s", index, res.Status())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Score  *float64        `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("search: decode %s response: %w", index, err)
	}

	hits := make([]rawHit, 0, len(envelope.Hits.Hits))
	for _, h := range envelope.Hits.Hits {
		hits = append(hits, rawHit{score: h.Score, source: h.Source})
	}
	return hits, nil
}

// Ping checks whether the node answers. Used by the health endpoint.
func (a *Adapter) Ping(ctx context.Context) error {
	if !a.Available() {
		return errs.ErrIndexUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	res, err := a.es.Ping(a.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search: ping: %s", res.Status())
	}
	return nil
}
