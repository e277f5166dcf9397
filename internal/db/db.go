package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", dsn)
}

func DSN(host string, port int, user, pass, name, ssl string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                         TEXT PRIMARY KEY,
	name                       TEXT NOT NULL,
	email                      TEXT NOT NULL UNIQUE,
	password_hash              TEXT NOT NULL,
	is_admin                   BOOLEAN NOT NULL DEFAULT FALSE,
	address_street             TEXT NOT NULL DEFAULT '',
	address_city               TEXT NOT NULL DEFAULT '',
	address_state              TEXT NOT NULL DEFAULT '',
	address_postal_code        TEXT NOT NULL DEFAULT '',
	additional_phone_numbers   TEXT[] NOT NULL DEFAULT '{}',
	additional_email_addresses TEXT[] NOT NULL DEFAULT '{}',
	website                    TEXT NOT NULL DEFAULT '',
	member_number              TEXT,
	membership_date            TIMESTAMPTZ,
	gps_latitude               DOUBLE PRECISION NOT NULL DEFAULT 0,
	gps_longitude              DOUBLE PRECISION NOT NULL DEFAULT 0,
	other_personal_information TEXT NOT NULL DEFAULT '',
	created_at                 TIMESTAMPTZ NOT NULL,
	updated_at                 TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS users_member_number_idx
	ON users (member_number) WHERE member_number IS NOT NULL;
`

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
