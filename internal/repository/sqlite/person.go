package sqlite

import (
	"context"
	"fmt"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository"
)

// personMapping maps a Person onto the poets or critics table
func personMapping(role domain.Role) Mapping[*domain.Person] {
	return Mapping[*domain.Person]{
		Table:   role.Table(),
		Key:     ColPhoneNumber,
		Columns: []string{ColPhoneNumber, ColFirstName, ColLastName, ColDateOfBirth},
		Mutable: []string{ColFirstName, ColLastName, ColDateOfBirth},
		Fields: func(p *domain.Person) map[string]any {
			return map[string]any{
				ColPhoneNumber: p.PhoneNumber,
				ColFirstName:   p.FirstName,
				ColLastName:    p.LastName,
				ColDateOfBirth: domain.FormatDate(p.DateOfBirth),
			}
		},
		FromRow: func(row map[string]string) (*domain.Person, error) {
			dob, err := domain.ParseDate(row[ColDateOfBirth])
			if err != nil {
				return nil, err
			}
			return &domain.Person{
				PhoneNumber: row[ColPhoneNumber],
				FirstName:   row[ColFirstName],
				LastName:    row[ColLastName],
				DateOfBirth: dob,
				Role:        role,
			}, nil
		},
	}
}

// PersonRepository implements repository.PersonStore for one role
type PersonRepository struct {
	role  domain.Role
	table *Table[*domain.Person]
}

var _ repository.PersonStore = (*PersonRepository)(nil)

// NewPersonRepository creates the repository for the role's table
func NewPersonRepository(exec repository.Executor, role domain.Role) *PersonRepository {
	return &PersonRepository{
		role:  role,
		table: NewTable(exec, personMapping(role)),
	}
}

// Role returns the role whose table this repository serves
func (r *PersonRepository) Role() domain.Role {
	return r.role
}

// FindByKey loads the person with the given phone number
func (r *PersonRepository) FindByKey(ctx context.Context, phoneNumber string) (*domain.Person, error) {
	return r.table.Find(ctx, phoneNumber)
}

// ListAll returns the role's whole table
func (r *PersonRepository) ListAll(ctx context.Context) (*domain.Table, error) {
	return r.table.List(ctx)
}

// Save inserts a new person. It fails with domain.ErrPhoneInUse, without
// writing, when the phone number is already present in the table.
func (r *PersonRepository) Save(ctx context.Context, person *domain.Person) error {
	exists, err := r.table.Exists(ctx, person.PhoneNumber)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %s: %w", r.role, person.PhoneNumber, domain.ErrPhoneInUse)
	}
	return r.table.Insert(ctx, person)
}

// Update overwrites names and date of birth for the person's phone number
func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	return r.table.Update(ctx, person)
}

// Delete removes the person with the given phone number, if any
func (r *PersonRepository) Delete(ctx context.Context, phoneNumber string) error {
	return r.table.Delete(ctx, phoneNumber)
}

// DeleteAll removes every person of this role
func (r *PersonRepository) DeleteAll(ctx context.Context) error {
	return r.table.DeleteAll(ctx)
}

// Exists reports whether the phone number is present
func (r *PersonRepository) Exists(ctx context.Context, phoneNumber string) (bool, error) {
	return r.table.Exists(ctx, phoneNumber)
}

// Count returns the number of people of this role
func (r *PersonRepository) Count(ctx context.Context) (int64, error) {
	return r.table.Count(ctx)
}
