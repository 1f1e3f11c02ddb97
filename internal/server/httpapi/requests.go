package httpapi

import "github.com/dmitrijs2005/clinicportal/internal/server/models"

// Requests bind with binding:"required", so empty strings are rejected the
// same as absent keys. A DNI is letters and digits only.

type loginRequest struct {
	DNI      string `json:"dni" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// profileFields are the editable patient fields shared by /register and /account.
type profileFields struct {
	DNI         string `json:"dni" binding:"required,alphanum,max=20"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	BirthDate   string `json:"birthDate" binding:"required"`
	Nationality string `json:"nationality" binding:"required"`
	Province    string `json:"province" binding:"required"`
	Locality    string `json:"locality" binding:"required"`
	PostalCode  string `json:"postalCode" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
}

func (f profileFields) patient() models.Patient {
	return models.Patient{
		DNI:         f.DNI,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Phone:       f.Phone,
		BirthDate:   f.BirthDate,
		Nationality: f.Nationality,
		Province:    f.Province,
		Locality:    f.Locality,
		PostalCode:  f.PostalCode,
		Address:     f.Address,
		Gender:      f.Gender,
	}
}

type registerRequest struct {
	profileFields
	Password    string `json:"password" binding:"required"`
	RepPassword string `json:"repPassword" binding:"required"`
}

type accountRequest struct {
	profileFields
	CurrentPassword string `json:"currentPassword" binding:"required"`
}

type contactRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	UserMessage string `json:"userMessage" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	RepNewPassword  string `json:"repNewPassword" binding:"required"`
}

type deleteAccountRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
}

type profileResponse struct {
	DNI          string `json:"dni"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate"`
	Nationality  string `json:"nationality"`
	Province     string `json:"province"`
	Locality     string `json:"locality"`
	PostalCode   string `json:"postalCode"`
	Address      string `json:"address"`
	Gender       string `json:"gender"`
	ImagePatient string `json:"imagePatient"`
}

func newProfileResponse(p *models.Patient) profileResponse {
	return profileResponse{
		DNI:          p.DNI,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		BirthDate:    p.BirthDate,
		Nationality:  p.Nationality,
		Province:     p.Province,
		Locality:     p.Locality,
		PostalCode:   p.PostalCode,
		Address:      p.Address,
		Gender:       p.Gender,
		ImagePatient: p.ImagePatient,
	}
}

type doctorResponse struct {
	DNI        string `json:"dni"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Speciality string `json:"speciality"`
	Email      string `json:"email"`
	Gender     string `json:"gender"`
}
