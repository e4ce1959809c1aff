package sqlite

import (
	"context"
	"fmt"
	"time"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository"
)

// poemMapping maps a Poem onto the poems table. Poems have no single-column
// identity; the poet's phone number stands in as the key.
func poemMapping() Mapping[*domain.Poem] {
	return Mapping[*domain.Poem]{
		Table: TablePoems,
		Key:   ColPoetPhoneNumber,
		Columns: []string{
			ColPoetPhoneNumber,
			ColCriticPhoneNumber,
			ColUploadedDate,
			ColUploadedTime,
			ColTextData,
		},
		Fields: func(p *domain.Poem) map[string]any {
			return map[string]any{
				ColPoetPhoneNumber:   p.PoetPhoneNumber,
				ColCriticPhoneNumber: p.CriticPhoneNumber,
				ColUploadedDate:      p.UploadedDate(),
				ColUploadedTime:      p.UploadedTime(),
				ColTextData:          p.Text,
			}
		},
	}
}

// PoemRepository implements repository.PoemStore
type PoemRepository struct {
	table      *Table[*domain.Poem]
	uniqueness domain.PoemUniqueness
	now        func() time.Time
}

var _ repository.PoemStore = (*PoemRepository)(nil)

// NewPoemRepository creates the poems repository. An unknown uniqueness
// policy falls back to domain.UniquePerPoet.
func NewPoemRepository(exec repository.Executor, uniqueness domain.PoemUniqueness) *PoemRepository {
	if !uniqueness.Valid() {
		uniqueness = domain.UniquePerPoet
	}
	return &PoemRepository{
		table:      NewTable(exec, poemMapping()),
		uniqueness: uniqueness,
		now:        time.Now,
	}
}

// WithClock sets the clock used to stamp uploads
func (r *PoemRepository) WithClock(now func() time.Time) *PoemRepository {
	r.now = now
	return r
}

// Uniqueness returns the active duplicate-submission policy
func (r *PoemRepository) Uniqueness() domain.PoemUniqueness {
	return r.uniqueness
}

// Save stamps the poem with the current time and inserts it, unless a poem
// blocking it under the uniqueness policy already exists
func (r *PoemRepository) Save(ctx context.Context, poem *domain.Poem) error {
	exists, err := r.exists(ctx, poem)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("poet %s: %w", poem.PoetPhoneNumber, domain.ErrPoemExists)
	}

	poem.Uploaded = r.now()
	return r.table.Insert(ctx, poem)
}

func (r *PoemRepository) exists(ctx context.Context, poem *domain.Poem) (bool, error) {
	var (
		n   int64
		err error
	)
	switch r.uniqueness {
	case domain.UniquePerPair:
		n, err = r.table.CountWhere(ctx,
			[]string{ColPoetPhoneNumber, ColCriticPhoneNumber},
			poem.PoetPhoneNumber, poem.CriticPhoneNumber)
	default:
		n, err = r.table.CountWhere(ctx, []string{ColPoetPhoneNumber}, poem.PoetPhoneNumber)
	}
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// ListAll returns every poem for display
func (r *PoemRepository) ListAll(ctx context.Context) (*domain.Table, error) {
	return r.table.List(ctx)
}

// DeleteAll removes every poem
func (r *PoemRepository) DeleteAll(ctx context.Context) error {
	return r.table.DeleteAll(ctx)
}

// Count returns the number of poems
func (r *PoemRepository) Count(ctx context.Context) (int64, error) {
	return r.table.Count(ctx)
}
