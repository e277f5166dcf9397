package models

import (
	"time"

	"github.com/lib/pq"
)

// Address is the postal address block of a non-admin member record.
type Address struct {
	Street     string `db:"street" json:"street"`
	City       string `db:"city" json:"city"`
	State      string `db:"state" json:"state"`
	PostalCode string `db:"postal_code" json:"postalCode"`
}

// GPSLocation is the geographic position of a non-admin member record.
type GPSLocation struct {
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}

// User represents an account record. The single admin account carries only
// the credential fields; member accounts carry the full profile.
type User struct {
	ID           string `db:"id" json:"_id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsAdmin      bool   `db:"is_admin" json:"isAdmin"`

	Address                  Address        `db:"address" json:"address"`
	AdditionalPhoneNumbers   pq.StringArray `db:"additional_phone_numbers" json:"additionalPhoneNumbers"`
	AdditionalEmailAddresses pq.StringArray `db:"additional_email_addresses" json:"additionalEmailAddresses"`
	Website                  string         `db:"website" json:"website"`
	MemberNumber             *string        `db:"member_number" json:"memberNumber,omitempty"`
	MembershipDate           *time.Time     `db:"membership_date" json:"membershipDate,omitempty"`
	GPSLocation              GPSLocation    `db:"gps" json:"gpsLocation"`
	OtherPersonalInformation string         `db:"other_personal_information" json:"otherPersonalInformation"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AuthResponse is the subset of a user record returned together with a
// freshly issued session token.
type AuthResponse struct {
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	IsAdmin        bool       `json:"isAdmin"`
	MemberNumber   *string    `json:"memberNumber,omitempty"`
	MembershipDate *time.Time `json:"membershipDate,omitempty"`
	Token          string     `json:"token"`
}
