package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/yourusername/adminserver/internal/models"
)

var (
	// ErrNotFound is returned when no record resolves for an id or email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("user already exists")
	// ErrAdminExists is returned on an attempt to create a second admin.
	ErrAdminExists = errors.New("an admin already exists")
	// ErrMissingFields is returned when a member record lacks profile
	// fields that are mandatory for non-admins. The field names are
	// appended to the error text.
	ErrMissingFields = errors.New("missing required member fields")
)

// hasher is the slice of the auth service the store needs: passwords are
// hashed whenever the password field changes, never on unrelated saves.
type hasher interface {
	HashPassword(password string) (string, error)
}

// UserStore owns the users table. No other component mutates user records.
type UserStore struct {
	db     *sqlx.DB
	hasher hasher
}

// NewUserStore creates a store over an open database handle.
func NewUserStore(db *sqlx.DB, h hasher) *UserStore {
	return &UserStore{db: db, hasher: h}
}

// userColumns aliases the flat address/GPS columns onto the nested struct
// fields sqlx expects.
const userColumns = `id, name, email, password_hash, is_admin,
	address_street AS "address.street",
	address_city AS "address.city",
	address_state AS "address.state",
	address_postal_code AS "address.postal_code",
	additional_phone_numbers, additional_email_addresses, website,
	member_number, membership_date,
	gps_latitude AS "gps.latitude",
	gps_longitude AS "gps.longitude",
	other_personal_information, created_at, updated_at`

// missingMemberFields returns the profile fields a non-admin record must
// carry but does not. A zero GPS fix counts as absent.
func missingMemberFields(u *models.User) []string {
	var missing []string
	if u.Website == "" {
		missing = append(missing, "website")
	}
	if u.Address.Street == "" || u.Address.City == "" ||
		u.Address.State == "" || u.Address.PostalCode == "" {
		missing = append(missing, "address")
	}
	if u.GPSLocation.Latitude == 0 && u.GPSLocation.Longitude == 0 {
		missing = append(missing, "gpsLocation")
	}
	if u.OtherPersonalInformation == "" {
		missing = append(missing, "otherPersonalInformation")
	}
	if u.MemberNumber == nil || *u.MemberNumber == "" {
		missing = append(missing, "memberNumber")
	}
	if len(u.AdditionalPhoneNumbers) == 0 {
		missing = append(missing, "additionalPhoneNumbers")
	}
	if len(u.AdditionalEmailAddresses) == 0 {
		missing = append(missing, "additionalEmailAddresses")
	}
	return missing
}

// Create inserts a new user. Member records must carry the full member
// profile. It enforces uniqueness of email, additional email addresses and
// member number, and the single-admin invariant, then hashes the plaintext
// password and fills in id and timestamps.
func (s *UserStore) Create(user *models.User, password string) error {
	if !user.IsAdmin {
		if missing := missingMemberFields(user); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
		}
	}

	if user.IsAdmin {
		var cnt int
		if err := s.db.Get(&cnt, "SELECT COUNT(*) FROM users WHERE is_admin = TRUE"); err != nil {
			return fmt.Errorf("check admin: %w", err)
		}
		if cnt > 0 {
			return ErrAdminExists
		}
	}

	var cnt int
	if err := s.db.Get(&cnt, "SELECT COUNT(*) FROM users WHERE email = $1", user.Email); err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if cnt > 0 {
		return ErrDuplicate
	}

	if len(user.AdditionalEmailAddresses) > 0 {
		if err := s.db.Get(&cnt,
			"SELECT COUNT(*) FROM users WHERE additional_email_addresses && $1",
			pq.StringArray(user.AdditionalEmailAddresses)); err != nil {
			return fmt.Errorf("check additional emails: %w", err)
		}
		if cnt > 0 {
			return ErrDuplicate
		}
	}

	if user.MemberNumber != nil {
		if err := s.db.Get(&cnt,
			"SELECT COUNT(*) FROM users WHERE member_number = $1", *user.MemberNumber); err != nil {
			return fmt.Errorf("check member number: %w", err)
		}
		if cnt > 0 {
			return ErrDuplicate
		}
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user.ID = uuid.New().String()
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.AdditionalPhoneNumbers == nil {
		user.AdditionalPhoneNumbers = pq.StringArray{}
	}
	if user.AdditionalEmailAddresses == nil {
		user.AdditionalEmailAddresses = pq.StringArray{}
	}
	if !user.IsAdmin && user.MembershipDate == nil {
		user.MembershipDate = &now
	}

	_, err = s.db.Exec(`
		INSERT INTO users (id, name, email, password_hash, is_admin,
			address_street, address_city, address_state, address_postal_code,
			additional_phone_numbers, additional_email_addresses, website,
			member_number, membership_date, gps_latitude, gps_longitude,
			other_personal_information, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$18)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin,
		user.Address.Street, user.Address.City, user.Address.State, user.Address.PostalCode,
		user.AdditionalPhoneNumbers, user.AdditionalEmailAddresses, user.Website,
		user.MemberNumber, user.MembershipDate,
		user.GPSLocation.Latitude, user.GPSLocation.Longitude,
		user.OtherPersonalInformation, now)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail returns the user record for an email address.
func (s *UserStore) FindByEmail(email string) (models.User, error) {
	var u models.User
	err := s.db.Get(&u, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// FindByID returns the user record for an identifier.
func (s *UserStore) FindByID(id string) (models.User, error) {
	var u models.User
	err := s.db.Get(&u, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// List returns every user record. No pagination.
func (s *UserStore) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	return users, err
}

// Delete removes a user record by identifier.
func (s *UserStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// updatableFields is the explicit whitelist of profile fields a verified
// update may touch, keyed by the JSON field name. Unknown keys are
// silently ignored.
var updatableFields = map[string]string{
	"name":                     "name",
	"email":                    "email",
	"website":                  "website",
	"memberNumber":             "member_number",
	"membershipDate":           "membership_date",
	"otherPersonalInformation": "other_personal_information",
	"additionalPhoneNumbers":   "additional_phone_numbers",
	"additionalEmailAddresses": "additional_email_addresses",
}

// Update applies the whitelisted subset of changes to a user record and
// persists it. Unique fields are re-checked against other rows before the
// write. A supplied password is hashed before storage; nested address and
// gpsLocation objects update their flat columns. The updated record is
// returned.
func (s *UserStore) Update(id string, changes map[string]any) (models.User, error) {
	if err := s.checkUpdateUniqueness(id, changes); err != nil {
		return models.User{}, err
	}

	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	for key, value := range changes {
		switch key {
		case "password":
			plain, ok := value.(string)
			if !ok || plain == "" {
				continue
			}
			hash, err := s.hasher.HashPassword(plain)
			if err != nil {
				return models.User{}, fmt.Errorf("hash password: %w", err)
			}
			add("password_hash", hash)
		case "address":
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for k, column := range map[string]string{
				"street":     "address_street",
				"city":       "address_city",
				"state":      "address_state",
				"postalCode": "address_postal_code",
			} {
				if v, ok := nested[k]; ok {
					add(column, v)
				}
			}
		case "gpsLocation":
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := nested["latitude"]; ok {
				add("gps_latitude", v)
			}
			if v, ok := nested["longitude"]; ok {
				add("gps_longitude", v)
			}
		case "additionalPhoneNumbers", "additionalEmailAddresses":
			add(updatableFields[key], pq.StringArray(toStringSlice(value)))
		case "membershipDate":
			raw, ok := value.(string)
			if !ok {
				continue
			}
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return models.User{}, fmt.Errorf("parse membershipDate: %w", err)
			}
			add("membership_date", ts)
		default:
			column, ok := updatableFields[key]
			if !ok {
				continue
			}
			add(column, value)
		}
	}

	if len(sets) == 0 {
		return s.FindByID(id)
	}

	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, ErrNotFound
	}

	return s.FindByID(id)
}

// checkUpdateUniqueness re-runs the create-time uniqueness checks for any
// unique field an update touches, excluding the row being updated.
func (s *UserStore) checkUpdateUniqueness(id string, changes map[string]any) error {
	var cnt int

	if email, ok := changes["email"].(string); ok && email != "" {
		if err := s.db.Get(&cnt,
			"SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2", email, id); err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if cnt > 0 {
			return ErrDuplicate
		}
	}

	if raw, ok := changes["additionalEmailAddresses"]; ok {
		if addrs := toStringSlice(raw); len(addrs) > 0 {
			if err := s.db.Get(&cnt,
				"SELECT COUNT(*) FROM users WHERE additional_email_addresses && $1 AND id <> $2",
				pq.StringArray(addrs), id); err != nil {
				return fmt.Errorf("check additional emails: %w", err)
			}
			if cnt > 0 {
				return ErrDuplicate
			}
		}
	}

	if mn, ok := changes["memberNumber"].(string); ok && mn != "" {
		if err := s.db.Get(&cnt,
			"SELECT COUNT(*) FROM users WHERE member_number = $1 AND id <> $2", mn, id); err != nil {
			return fmt.Errorf("check member number: %w", err)
		}
		if cnt > 0 {
			return ErrDuplicate
		}
	}

	return nil
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
