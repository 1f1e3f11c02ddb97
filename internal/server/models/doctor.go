package models

// Doctor is a read-only clinic staff record.
type Doctor struct {
	DNI        string
	FirstName  string
	LastName   string
	Speciality string
	Email      string
	Gender     string
}
