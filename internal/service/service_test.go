package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/loader"
	"poetrydesk/internal/repository/sqlite"
)

func newTestServices(t *testing.T, uniqueness domain.PoemUniqueness) (*Services, chan Event) {
	t.Helper()
	p := NewProvisioner(t.TempDir(), sqlite.DefaultOptions(), uniqueness, nil)
	store, err := p.Create(context.Background(), "testdb")
	require.NoError(t, err)

	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	return NewServices(store, bus, nil), events
}

func ivan(t *testing.T) *domain.Person {
	return domain.NewPerson(domain.RolePoet, "+12345678901", "Ivan", "Petrov", mustDate(t, "1990-01-01"))
}

func olga(t *testing.T) *domain.Person {
	return domain.NewPerson(domain.RoleCritic, "+19876543210", "Olga", "Orlova", mustDate(t, "1985-05-05"))
}

func TestPeopleServiceAdd(t *testing.T) {
	ctx := context.Background()
	svcs, events := newTestServices(t, domain.UniquePerPoet)

	t.Run("valid person is saved and announced", func(t *testing.T) {
		require.NoError(t, svcs.Poets.Add(ctx, ivan(t)))

		got, err := svcs.Poets.Get(ctx, "+12345678901")
		require.NoError(t, err)
		assert.Equal(t, "Petrov", got.LastName)

		ev := <-events
		assert.Equal(t, EventPersonSaved, ev.Type)
	})

	t.Run("input is trimmed and normalized", func(t *testing.T) {
		p := domain.NewPerson(domain.RoleCritic, "  +15550001111 ", " Ёжик ", "Smirnova", mustDate(t, "1970-07-07"))
		require.NoError(t, svcs.Critics.Add(ctx, p))

		got, err := svcs.Critics.Get(ctx, "+15550001111")
		require.NoError(t, err)
		assert.Equal(t, "Ёжик", got.FirstName)
	})

	t.Run("invalid person never reaches the repository", func(t *testing.T) {
		before, err := svcs.Poets.Count(ctx)
		require.NoError(t, err)

		bad := domain.NewPerson(domain.RolePoet, "12", "Al", "X", mustDate(t, "2000-01-01"))
		err = svcs.Poets.Add(ctx, bad)
		require.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "first_name")
		assert.Contains(t, verr.Fields, "last_name")
		assert.Contains(t, verr.Fields, "phone_number")

		after, err := svcs.Poets.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		err := svcs.Poets.Add(ctx, ivan(t))
		assert.ErrorIs(t, err, domain.ErrPhoneInUse)
	})

	t.Run("role comes from the service", func(t *testing.T) {
		p := olga(t)
		p.Role = domain.RolePoet
		require.NoError(t, svcs.Critics.Add(ctx, p))
		assert.Equal(t, domain.RoleCritic, p.Role)
	})
}

func TestPeopleServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svcs, _ := newTestServices(t, domain.UniquePerPoet)
	require.NoError(t, svcs.Poets.Add(ctx, ivan(t)))

	updated := domain.NewPerson(domain.RolePoet, "+12345678901", "Ivan", "Sidorov", mustDate(t, "1990-02-02"))
	require.NoError(t, svcs.Poets.Update(ctx, updated))

	got, err := svcs.Poets.Get(ctx, "+12345678901")
	require.NoError(t, err)
	assert.Equal(t, "Sidorov", got.LastName)
	assert.Equal(t, "1990-02-02", domain.FormatDate(got.DateOfBirth))

	missing := domain.NewPerson(domain.RolePoet, "+10000000000", "Nobody", "Here", mustDate(t, "1990-02-02"))
	assert.ErrorIs(t, svcs.Poets.Update(ctx, missing), domain.ErrNotFound)
}

func TestPeopleServiceDeleteAndList(t *testing.T) {
	ctx := context.Background()
	svcs, _ := newTestServices(t, domain.UniquePerPoet)
	require.NoError(t, svcs.Poets.Add(ctx, ivan(t)))
	require.NoError(t, svcs.Poets.Add(ctx, domain.NewPerson(domain.RolePoet, "+15550001111", "Anna", "Ivanova", mustDate(t, "1991-02-03"))))

	table, err := svcs.Poets.List(ctx, "Anna")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	table, err = svcs.Poets.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	require.NoError(t, svcs.Poets.Delete(ctx, "+15550001111"))
	require.NoError(t, svcs.Poets.Delete(ctx, "+15550001111"))

	_, err = svcs.Poets.Get(ctx, "+15550001111")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svcs.Poets.Clear(ctx))
	n, err := svcs.Poets.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPoemServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		svcs, _ := newTestServices(t, domain.UniquePerPoet)
		tests := []struct {
			name  string
			poem  *domain.Poem
			field string
		}{
			{"no poet", domain.NewPoem("", "+19876543210", "text"), "poet"},
			{"no critic", domain.NewPoem("+12345678901", " ", "text"), "critic"},
			{"no text", domain.NewPoem("+12345678901", "+19876543210", "  \n"), "text"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := svcs.Poems.Submit(ctx, tt.poem)
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Contains(t, verr.Fields, tt.field)
			})
		}
		n, err := svcs.Poems.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("per pair policy", func(t *testing.T) {
		svcs, _ := newTestServices(t, domain.UniquePerPair)
		require.NoError(t, svcs.Poems.Submit(ctx, domain.NewPoem("+12345678901", "+19876543210", "One")))
		require.NoError(t, svcs.Poems.Submit(ctx, domain.NewPoem("+12345678901", "+15550002222", "Two")))
		assert.ErrorIs(t, svcs.Poems.Submit(ctx, domain.NewPoem("+12345678901", "+19876543210", "Three")), domain.ErrPoemExists)
	})
}

// Create testdb, add one poet, one critic and one poem, then try a second
// poem by the same poet.
func TestPoetryDatabaseScenario(t *testing.T) {
	ctx := context.Background()
	svcs, _ := newTestServices(t, domain.UniquePerPoet)

	require.NoError(t, svcs.Poets.Add(ctx, ivan(t)))
	require.NoError(t, svcs.Critics.Add(ctx, olga(t)))
	require.NoError(t, svcs.Poems.Submit(ctx, domain.NewPoem("+12345678901", "+19876543210", "Roses are red")))

	for name, list := range map[string]func(context.Context, string) (*domain.Table, error){
		"poets":   svcs.Poets.List,
		"critics": svcs.Critics.List,
		"poems":   svcs.Poems.List,
	} {
		table, err := list(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len(), name)
	}

	err := svcs.Poems.Submit(ctx, domain.NewPoem("+12345678901", "+19876543210", "Violets are blue"))
	assert.ErrorIs(t, err, domain.ErrPoemExists)
}

func TestImporter(t *testing.T) {
	ctx := context.Background()
	svcs, events := newTestServices(t, domain.UniquePerPoet)

	ds, err := loader.ParseYAML([]byte(`
poets:
  - {phone: "+12345678901", first_name: Ivan, last_name: Petrov, date_of_birth: "1990-01-01"}
  - {phone: "+12345678901", first_name: Anna, last_name: Ivanova, date_of_birth: "1991-02-03"}
  - {phone: "+15550001111", first_name: Al, last_name: Ivanova, date_of_birth: "1991-02-03"}
critics:
  - {phone: "+19876543210", first_name: Olga, last_name: Orlova, date_of_birth: "1985-05-05"}
  - {phone: "+15550002222", first_name: Boris, last_name: Orlov, date_of_birth: "someday"}
poems:
  - {poet: "+12345678901", critic: "+19876543210", text: "Roses are red"}
  - {poet: "+12345678901", critic: "+19876543210", text: "Again"}
  - {poet: "+15550003333", critic: "+19876543210", text: ""}
`))
	require.NoError(t, err)

	result, err := svcs.Importer.Import(ctx, ds)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Poets)
	assert.Equal(t, 1, result.Critics)
	assert.Equal(t, 1, result.Poems)
	assert.Equal(t, 3, result.Imported())
	require.Len(t, result.Failures, 5)

	assert.Equal(t, ImportFailure{Section: "poets", Index: 1, Key: "+12345678901", Error: result.Failures[0].Error}, result.Failures[0])
	assert.Equal(t, "critics", result.Failures[2].Section)
	assert.Equal(t, "poems", result.Failures[3].Section)
	assert.Contains(t, result.Summary(), "imported 1 poets, 1 critics, 1 poems; 5 failed")

	var last Event
	for len(events) > 0 {
		last = <-events
	}
	assert.Equal(t, EventDatasetImported, last.Type)
}

func TestImporterStopsOnCancel(t *testing.T) {
	svcs, _ := newTestServices(t, domain.UniquePerPoet)
	ds, err := loader.ParseYAML([]byte("poets:\n  - {phone: \"+12345678901\", first_name: Ivan, last_name: Petrov, date_of_birth: \"1990-01-01\"}\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svcs.Importer.Import(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Imported())
}

func TestEventBusDropsForSlowSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 1)
	bus.Subscribe(ch)

	bus.Publish(Event{Type: EventPoemsCleared})
	bus.Publish(Event{Type: EventPoemsCleared})

	assert.Len(t, ch, 1)

	var nilBus *EventBus
	assert.NotPanics(t, func() { nilBus.Publish(Event{Type: EventPoemsCleared}) })
}
