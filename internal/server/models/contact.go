package models

// ContactMessage is a message sent from the public contact form.
type ContactMessage struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
}
