package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Messages shown to portal users.
const (
	msgTokenNotFound        = "Token not found"
	msgTokenExpired         = "Token expired"
	msgInvalidToken         = "Invalid token"
	msgDataMissing          = "Data missing"
	msgPasswordsMismatch    = "Passwords don't match"
	msgPasswordTooLong      = "Password is too long"
	msgUserExists           = "User already exists"
	msgNoUserWithDNI        = "No user registered with that DNI"
	msgIncorrectCredentials = "Incorrect credentials"
	msgWrongPassword        = "Actual password isn't correct"
	msgWrongPasswordEntered = "Actual password entered isn't correct"
	msgUserNotFound         = "User not found"
	msgFileNotFound         = "File not found"
	msgFileTooLarge         = "File too large"
	msgInvalidImageFile     = "Invalid image file"
	msgImageUploadFailed    = "Image upload failed"
	msgNoImageURL           = "No image_url provided"
	msgInvalidImageURL      = "Invalid image_url"
	msgImageNotFound        = "Image not found"
	msgImageUnreachable     = "Image could not be retrieved"
	msgInternal             = "Internal server error"
	msgLoginOK              = "Successful login"
	msgRegisterOK           = "Register completed successfully"
	msgContactOK            = "Contact message sent successfully"
	msgAccountOK            = "Data modified successfully"
	msgPasswordOK           = "Password updated successfully"
	msgDeleteOK             = "Account deleted successfully"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func writeMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// internalError logs err and answers 500 without leaking details.
func (h *handler) internalError(c *gin.Context, err error) {
	h.Logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	writeError(c, http.StatusInternalServerError, msgInternal)
}
