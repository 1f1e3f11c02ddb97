// Package models defines the server-side records persisted in the database
// and the request-scoped values passed between services.
package models

import "time"

// Patient is a registered portal user, keyed by national ID (DNI).
// PasswordHash holds a bcrypt hash and is never serialised.
type Patient struct {
	DNI          string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Email        string
	Phone        string
	BirthDate    string
	Nationality  string
	Province     string
	Locality     string
	PostalCode   string
	Address      string
	Gender       string
	ImagePatient string
	CreatedAt    time.Time
}

// FullName is the name printed on diagnosis reports.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
