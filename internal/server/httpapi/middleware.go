package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/auth"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/gin-gonic/gin"
)

const patientContextKey = "patient"

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if dni := c.GetString(common.PatientIDContextKey); dni != "" {
			args = append(args, "dni", dni)
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "request", args...)
			return
		}
		logger.Info(c.Request.Context(), "request", args...)
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// authRequired resolves the Authorization header to an existing patient.
// Token failures answer 401 and a token for a deleted patient answers 404.
func (h *handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromHeader(c.GetHeader(common.AuthorizationHeaderName))

		patient, err := h.Patients.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenNotFound):
				abortWithError(c, http.StatusUnauthorized, msgTokenNotFound)
			case errors.Is(err, common.ErrTokenExpired):
				abortWithError(c, http.StatusUnauthorized, msgTokenExpired)
			case errors.Is(err, common.ErrInvalidToken):
				abortWithError(c, http.StatusUnauthorized, msgInvalidToken)
			case errors.Is(err, common.ErrorNotFound):
				abortWithError(c, http.StatusNotFound, msgUserNotFound)
			default:
				h.internalError(c, err)
				c.Abort()
			}
			return
		}

		c.Set(common.PatientIDContextKey, patient.DNI)
		c.Set(patientContextKey, patient)
		c.Next()
	}
}

func currentPatient(c *gin.Context) *models.Patient {
	return c.MustGet(patientContextKey).(*models.Patient)
}
