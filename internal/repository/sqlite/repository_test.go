package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poetrydesk/internal/domain"
)

func newTestPerson(t *testing.T, phone, first, last, dob string, role domain.Role) *domain.Person {
	t.Helper()
	date, err := domain.ParseDate(dob)
	require.NoError(t, err)
	return &domain.Person{
		PhoneNumber: phone,
		FirstName:   first,
		LastName:    last,
		DateOfBirth: date,
		Role:        role,
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// ============================================================================
// Person Repository Tests
// ============================================================================

func TestPersonRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)

	for _, role := range []domain.Role{domain.RolePoet, domain.RoleCritic} {
		t.Run(string(role), func(t *testing.T) {
			repo := NewPersonRepository(gw, role)
			want := newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", role)

			require.NoError(t, repo.Save(ctx, want))

			got, err := repo.FindByKey(ctx, "+12345678901")
			require.NoError(t, err)
			assert.Equal(t, want.PhoneNumber, got.PhoneNumber)
			assert.Equal(t, want.FirstName, got.FirstName)
			assert.Equal(t, want.LastName, got.LastName)
			assert.True(t, want.DateOfBirth.Equal(got.DateOfBirth), "date_of_birth %v != %v", want.DateOfBirth, got.DateOfBirth)
			assert.Equal(t, role, got.Role)

			ok, err := repo.Exists(ctx, "+12345678901")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestPersonRepositoryRejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(newTestGateway(t), domain.RolePoet)

	require.NoError(t, repo.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RolePoet)))

	err := repo.Save(ctx, newTestPerson(t, "+12345678901", "Anna", "Ivanova", "1991-02-03", domain.RolePoet))
	require.ErrorIs(t, err, domain.ErrPhoneInUse)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByKey(ctx, "+12345678901")
	require.NoError(t, err)
	assert.Equal(t, "Ivan", got.FirstName)
}

func TestPersonRepositoryTablesAreIndependent(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	poets := NewPersonRepository(gw, domain.RolePoet)
	critics := NewPersonRepository(gw, domain.RoleCritic)

	require.NoError(t, poets.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RolePoet)))
	require.NoError(t, critics.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RoleCritic)))

	require.NoError(t, poets.DeleteAll(ctx))

	n, err := critics.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPersonRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(newTestGateway(t), domain.RoleCritic)

	require.NoError(t, repo.Save(ctx, newTestPerson(t, "+19876543210", "Olga", "Smirnova", "1985-05-05", domain.RoleCritic)))
	require.NoError(t, repo.Update(ctx, newTestPerson(t, "+19876543210", "Olga", "Kuznetsova", "1985-06-06", domain.RoleCritic)))

	got, err := repo.FindByKey(ctx, "+19876543210")
	require.NoError(t, err)
	assert.Equal(t, "Kuznetsova", got.LastName)
	assert.Equal(t, "1985-06-06", domain.FormatDate(got.DateOfBirth))

	t.Run("missing key is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, newTestPerson(t, "+10000000000", "Nobody", "Here", "2000-01-01", domain.RoleCritic)))
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestPersonRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(newTestGateway(t), domain.RolePoet)

	require.NoError(t, repo.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RolePoet)))
	require.NoError(t, repo.Save(ctx, newTestPerson(t, "+15550001111", "Anna", "Ivanova", "1991-02-03", domain.RolePoet)))

	require.NoError(t, repo.Delete(ctx, "+12345678901"))
	require.NoError(t, repo.Delete(ctx, "+10000000000"))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByKey(ctx, "+12345678901")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "expected ErrNotFound, got %v", err)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPersonRepositoryListAll(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(newTestGateway(t), domain.RolePoet)

	table, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ColPhoneNumber, ColFirstName, ColLastName, ColDateOfBirth}, table.Columns)
	assert.Equal(t, 0, table.Len())

	require.NoError(t, repo.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RolePoet)))

	table, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"+12345678901", "Ivan", "Petrov", "1990-01-01"}, table.Rows[0])
}

// ============================================================================
// Poem Repository Tests
// ============================================================================

func TestPoemRepositoryStampsUpload(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 3, 8, 14, 5, 59, 0, time.UTC)
	repo := NewPoemRepository(newTestGateway(t), domain.UniquePerPoet).WithClock(fixedClock(ts))

	poem := domain.NewPoem("+12345678901", "+19876543210", "Roses are red")
	require.NoError(t, repo.Save(ctx, poem))
	assert.Equal(t, ts, poem.Uploaded)

	table, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"+12345678901", "+19876543210", "2024-03-08", "14:05", "Roses are red"}, table.Rows[0])
}

func TestPoemRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		uniqueness domain.PoemUniqueness
		second     *domain.Poem
		wantErr    error
		wantCount  int64
	}{
		{
			name:       "one poem per poet blocks another critic",
			uniqueness: domain.UniquePerPoet,
			second:     domain.NewPoem("+12345678901", "+15550002222", "Another"),
			wantErr:    domain.ErrPoemExists,
			wantCount:  1,
		},
		{
			name:       "per pair allows another critic",
			uniqueness: domain.UniquePerPair,
			second:     domain.NewPoem("+12345678901", "+15550002222", "Another"),
			wantCount:  2,
		},
		{
			name:       "per pair blocks the same pair",
			uniqueness: domain.UniquePerPair,
			second:     domain.NewPoem("+12345678901", "+19876543210", "Again"),
			wantErr:    domain.ErrPoemExists,
			wantCount:  1,
		},
		{
			name:       "unknown policy falls back to per poet",
			uniqueness: domain.PoemUniqueness("bogus"),
			second:     domain.NewPoem("+12345678901", "+15550002222", "Another"),
			wantErr:    domain.ErrPoemExists,
			wantCount:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewPoemRepository(newTestGateway(t), tt.uniqueness)
			require.NoError(t, repo.Save(ctx, domain.NewPoem("+12345678901", "+19876543210", "First")))

			err := repo.Save(ctx, tt.second)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, tt.second.Uploaded.IsZero(), "rejected poem must not be stamped")
			} else {
				require.NoError(t, err)
			}

			n, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestPoemRepositoryUniquenessDefault(t *testing.T) {
	repo := NewPoemRepository(newTestGateway(t), "")
	assert.Equal(t, domain.UniquePerPoet, repo.Uniqueness())
}

// Poets and critics saved, one poem submitted, then everything cleared.
func TestPoetryScenario(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	poets := NewPersonRepository(gw, domain.RolePoet)
	critics := NewPersonRepository(gw, domain.RoleCritic)
	poems := NewPoemRepository(gw, domain.UniquePerPoet)

	require.NoError(t, poets.Save(ctx, newTestPerson(t, "+12345678901", "Ivan", "Petrov", "1990-01-01", domain.RolePoet)))
	require.NoError(t, critics.Save(ctx, newTestPerson(t, "+19876543210", "Olga", "Smirnova", "1985-05-05", domain.RoleCritic)))
	require.NoError(t, poems.Save(ctx, domain.NewPoem("+12345678901", "+19876543210", "Roses are red")))

	err := poems.Save(ctx, domain.NewPoem("+12345678901", "+19876543210", "Violets are blue"))
	require.ErrorIs(t, err, domain.ErrPoemExists)

	n, err := poems.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, poems.DeleteAll(ctx))
	require.NoError(t, poets.DeleteAll(ctx))
	require.NoError(t, critics.DeleteAll(ctx))

	for _, count := range []func(context.Context) (int64, error){poets.Count, critics.Count, poems.Count} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	}
}

// ============================================================================
// Generic Table Tests
// ============================================================================

func TestTableStatements(t *testing.T) {
	table := NewTable(nil, personMapping(domain.RolePoet))

	assert.Equal(t, `SELECT "phone_number", "first_name", "last_name", "date_of_birth" FROM "poets" WHERE "phone_number" = ?;`, table.selectByKey)
	assert.Equal(t, `INSERT INTO "poets" ("phone_number", "first_name", "last_name", "date_of_birth") VALUES (?, ?, ?, ?);`, table.insert)
	assert.Equal(t, `UPDATE "poets" SET "first_name" = ?, "last_name" = ?, "date_of_birth" = ? WHERE "phone_number" = ?;`, table.update)
	assert.Equal(t, "poets", table.Name())
}

func TestTableGuards(t *testing.T) {
	ctx := context.Background()
	poems := NewTable(newTestGateway(t), poemMapping())

	t.Run("find without row mapping", func(t *testing.T) {
		_, err := poems.Find(ctx, "+12345678901")
		assert.Error(t, err)
	})

	t.Run("update without mutable columns", func(t *testing.T) {
		err := poems.Update(ctx, domain.NewPoem("+1", "+2", "x"))
		assert.Error(t, err)
	})

	t.Run("count on unknown column", func(t *testing.T) {
		_, err := poems.CountWhere(ctx, []string{"1 = 1 OR text_data"}, "x")
		assert.Error(t, err)
	})

	t.Run("count with mismatched values", func(t *testing.T) {
		_, err := poems.CountWhere(ctx, []string{ColPoetPhoneNumber})
		assert.Error(t, err)
	})
}
