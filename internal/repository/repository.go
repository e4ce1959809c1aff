package repository

import (
	"context"

	"poetrydesk/internal/domain"
)

// Executor runs a single statement per call against the project database.
// Every call owns its connection: it is opened before the statement runs
// and closed before the call returns, including on error.
type Executor interface {
	ExecuteNonQuery(ctx context.Context, query string, args ...any) error
	ExecuteScalar(ctx context.Context, query string, args ...any) (any, error)
	FetchTable(ctx context.Context, query string, args ...any) (*domain.Table, error)
	FetchRow(ctx context.Context, query string, args ...any) (map[string]string, error)
	FetchColumn(ctx context.Context, query string, args ...any) ([]string, error)
}

// PersonStore is the data access surface for one role's table
type PersonStore interface {
	FindByKey(ctx context.Context, phoneNumber string) (*domain.Person, error)
	ListAll(ctx context.Context) (*domain.Table, error)
	Save(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	Delete(ctx context.Context, phoneNumber string) error
	DeleteAll(ctx context.Context) error
	Exists(ctx context.Context, phoneNumber string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// PoemStore is the data access surface for poems: write-once, list and delete
type PoemStore interface {
	Save(ctx context.Context, poem *domain.Poem) error
	ListAll(ctx context.Context) (*domain.Table, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
