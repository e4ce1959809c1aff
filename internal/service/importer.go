package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/loader"
)

// ImportFailure describes one record that was not imported
type ImportFailure struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Key     string `json:"key,omitempty"`
	Error   string `json:"error"`
}

// ImportResult summarizes a dataset import
type ImportResult struct {
	Poets    int             `json:"poets"`
	Critics  int             `json:"critics"`
	Poems    int             `json:"poems"`
	Failures []ImportFailure `json:"failures,omitempty"`
}

// Imported returns the number of records written
func (r *ImportResult) Imported() int {
	return r.Poets + r.Critics + r.Poems
}

// Importer bulk-loads a dataset through the services, so imported records
// get the same normalization, validation and uniqueness checks as
// interactive input. People are imported before poems.
type Importer struct {
	poets    *PeopleService
	critics  *PeopleService
	poems    *PoemService
	eventBus *EventBus
	logger   *zap.Logger
}

// NewImporter creates a new importer
func NewImporter(poets, critics *PeopleService, poems *PoemService, eventBus *EventBus, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		poets:    poets,
		critics:  critics,
		poems:    poems,
		eventBus: eventBus,
		logger:   logger.Named("import"),
	}
}

// Import writes every valid record and collects the rest as failures.
// Only a cancelled context stops it early.
func (im *Importer) Import(ctx context.Context, ds *loader.Dataset) (*ImportResult, error) {
	result := &ImportResult{}

	people := []struct {
		section string
		records []loader.Record[*domain.Person]
		svc     *PeopleService
		count   *int
	}{
		{"poets", ds.Poets, im.poets, &result.Poets},
		{"critics", ds.Critics, im.critics, &result.Critics},
	}

	for _, group := range people {
		for _, rec := range group.records {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			err := rec.Err
			if err == nil {
				err = group.svc.Add(ctx, rec.Value)
			}
			if err != nil {
				result.Failures = append(result.Failures, ImportFailure{
					Section: group.section,
					Index:   rec.Index,
					Key:     rec.Value.PhoneNumber,
					Error:   err.Error(),
				})
				continue
			}
			*group.count++
		}
	}

	for _, rec := range ds.Poems {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := im.poems.Submit(ctx, rec.Value); err != nil {
			result.Failures = append(result.Failures, ImportFailure{
				Section: "poems",
				Index:   rec.Index,
				Key:     rec.Value.PoetPhoneNumber,
				Error:   err.Error(),
			})
			continue
		}
		result.Poems++
	}

	im.logger.Info("dataset imported",
		zap.Int("poets", result.Poets),
		zap.Int("critics", result.Critics),
		zap.Int("poems", result.Poems),
		zap.Int("failures", len(result.Failures)))
	im.eventBus.Publish(Event{Type: EventDatasetImported, Payload: result})

	return result, nil
}

// Summary returns a one-line description of the result
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("imported %d poets, %d critics, %d poems; %d failed",
		r.Poets, r.Critics, r.Poems, len(r.Failures))
}
