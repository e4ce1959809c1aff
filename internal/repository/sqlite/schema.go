package sqlite

import (
	"context"
	"fmt"

	"poetrydesk/internal/repository"
)

// Table and column names. Poets and critics share the same shape.
const (
	TablePoets   = "poets"
	TableCritics = "critics"
	TablePoems   = "poems"

	ColPhoneNumber = "phone_number"
	ColFirstName   = "first_name"
	ColLastName    = "last_name"
	ColDateOfBirth = "date_of_birth"

	ColPoetPhoneNumber   = "poet_phone_number"
	ColCriticPhoneNumber = "critic_phone_number"
	ColUploadedDate      = "uploaded_date"
	ColUploadedTime      = "uploaded_time"
	ColTextData          = "text_data"
)

// CreateSchema creates the three project tables. It runs once, when a new
// database file is provisioned; there is no migration.
func CreateSchema(ctx context.Context, exec repository.Executor) error {
	if err := exec.ExecuteNonQuery(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE poets (
    phone_number VARCHAR(12) NOT NULL PRIMARY KEY,
    first_name VARCHAR(20) NOT NULL,
    last_name VARCHAR(20) NOT NULL,
    date_of_birth DATE NOT NULL
);

CREATE TABLE critics (
    phone_number VARCHAR(12) NOT NULL PRIMARY KEY,
    first_name VARCHAR(20) NOT NULL,
    last_name VARCHAR(20) NOT NULL,
    date_of_birth DATE NOT NULL
);

CREATE TABLE poems (
    poet_phone_number VARCHAR(12) NOT NULL,
    critic_phone_number VARCHAR(12) NOT NULL,
    uploaded_date DATE NOT NULL,
    uploaded_time TIME NOT NULL,
    text_data VARCHAR NOT NULL,
    FOREIGN KEY (poet_phone_number) REFERENCES poets(phone_number),
    FOREIGN KEY (critic_phone_number) REFERENCES critics(phone_number)
);
`
