package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/server/auth"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/services"
	"github.com/gin-gonic/gin"
)

// obtainToken echoes the token presented by the caller. There is no
// server-side session to read from.
func (h *handler) obtainToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"token": auth.TokenFromHeader(c.GetHeader(common.AuthorizationHeaderName))})
}

func (h *handler) obtainData(c *gin.Context) {
	c.JSON(http.StatusOK, newProfileResponse(currentPatient(c)))
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	token, err := h.Patients.Login(c.Request.Context(), req.DNI, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusUnauthorized, msgNoUserWithDNI)
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(c, http.StatusUnauthorized, msgIncorrectCredentials)
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgLoginOK, "token": token})
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	err := h.Patients.Register(c.Request.Context(), services.Registration{
		Patient:     req.patient(),
		Password:    req.Password,
		RepPassword: req.RepPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorPasswordsMismatch):
			writeError(c, http.StatusBadRequest, msgPasswordsMismatch)
		case errors.Is(err, common.ErrorValidation):
			writeError(c, http.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(c, http.StatusConflict, msgUserExists)
		default:
			h.internalError(c, err)
		}
		return
	}

	writeMessage(c, msgRegisterOK)
}

func (h *handler) contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	err := h.Contact.Send(c.Request.Context(), models.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.UserMessage,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	writeMessage(c, msgContactOK)
}

// account is authenticated by the current password in the body, not by a token.
func (h *handler) account(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	p := req.patient()
	if err := h.Patients.UpdateAccount(c.Request.Context(), &p, req.CurrentPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrorIncorrectPassword), errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusBadRequest, msgWrongPassword)
		default:
			h.internalError(c, err)
		}
		return
	}

	writeMessage(c, msgAccountOK)
}

func (h *handler) uploadImage(attachToProfile bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeError(c, http.StatusRequestEntityTooLarge, msgFileTooLarge)
				return
			}
			writeError(c, http.StatusBadRequest, msgFileNotFound)
			return
		}
		if fh.Filename == "" {
			writeError(c, http.StatusBadRequest, msgFileNotFound)
			return
		}
		if fh.Size > h.maxUploadSize {
			writeError(c, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}

		data, err := readFormFile(fh)
		if err != nil {
			h.internalError(c, err)
			return
		}

		patient := currentPatient(c)
		url, err := h.Images.Upload(c.Request.Context(), patient.DNI, fh.Filename, data, attachToProfile)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorValidation):
				writeError(c, http.StatusBadRequest, msgInvalidImageFile)
			case errors.Is(err, common.ErrorNotFound):
				writeError(c, http.StatusNotFound, msgUserNotFound)
			case errors.Is(err, common.ErrorUpstream):
				writeError(c, http.StatusBadGateway, msgImageUploadFailed)
			default:
				h.internalError(c, err)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"image_url": url})
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func (h *handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	dni := currentPatient(c).DNI
	err := h.Patients.ChangePassword(c.Request.Context(), dni, req.CurrentPassword, req.NewPassword, req.RepNewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorPasswordsMismatch):
			writeError(c, http.StatusBadRequest, msgPasswordsMismatch)
		case errors.Is(err, common.ErrorValidation):
			writeError(c, http.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, common.ErrorIncorrectPassword):
			writeError(c, http.StatusBadRequest, msgWrongPasswordEntered)
		case errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusNotFound, msgUserNotFound)
		default:
			h.internalError(c, err)
		}
		return
	}

	writeMessage(c, msgPasswordOK)
}

func (h *handler) deleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgDataMissing)
		return
	}

	if err := h.Patients.DeleteAccount(c.Request.Context(), currentPatient(c).DNI, req.CurrentPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrorIncorrectPassword):
			writeError(c, http.StatusBadRequest, msgWrongPasswordEntered)
		case errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusNotFound, msgUserNotFound)
		default:
			h.internalError(c, err)
		}
		return
	}

	writeMessage(c, msgDeleteOK)
}

func (h *handler) doctors(c *gin.Context) {
	list, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	out := make([]doctorResponse, 0, len(list))
	for _, d := range list {
		out = append(out, doctorResponse{
			DNI:        d.DNI,
			FirstName:  d.FirstName,
			LastName:   d.LastName,
			Speciality: d.Speciality,
			Email:      d.Email,
			Gender:     d.Gender,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) xrayDiagnosis(c *gin.Context) {
	imageURL := c.PostForm("image_url")
	if imageURL == "" {
		writeError(c, http.StatusBadRequest, msgNoImageURL)
		return
	}

	res, err := h.Diagnosis.Diagnose(c.Request.Context(), currentPatient(c), imageURL)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(c, http.StatusBadRequest, msgInvalidImageURL)
		case errors.Is(err, common.ErrorInvalidImage):
			writeError(c, http.StatusBadRequest, msgInvalidImageFile)
		case errors.Is(err, common.ErrorNotFound):
			writeError(c, http.StatusNotFound, msgImageNotFound)
		case errors.Is(err, common.ErrorUpstream):
			writeError(c, http.StatusBadGateway, msgImageUnreachable)
		default:
			h.internalError(c, err)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}
