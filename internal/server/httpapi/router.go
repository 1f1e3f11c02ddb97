package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/inference"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type PatientService interface {
	Register(ctx context.Context, r services.Registration) error
	Login(ctx context.Context, dni, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.Patient, error)
	UpdateAccount(ctx context.Context, p *models.Patient, currentPassword string) error
	ChangePassword(ctx context.Context, dni, currentPassword, newPassword, repNewPassword string) error
	DeleteAccount(ctx context.Context, dni, currentPassword string) error
}

type DoctorService interface {
	List(ctx context.Context) ([]*models.Doctor, error)
}

type ImageService interface {
	Upload(ctx context.Context, dni, filename string, data []byte, attachToProfile bool) (string, error)
}

type ContactService interface {
	Send(ctx context.Context, m models.ContactMessage) error
}

type DiagnosisService interface {
	Diagnose(ctx context.Context, patient *models.Patient, imageURL string) (*services.DiagnosisResult, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ModelChecker is satisfied by *inference.Classifier.
type ModelChecker interface {
	Ready(key string) bool
}

// Deps are the collaborators the handlers call into. DB and Models may be
// nil, in which case /readyz reports them as disabled.
type Deps struct {
	Patients  PatientService
	Doctors   DoctorService
	Images    ImageService
	Contact   ContactService
	Diagnosis DiagnosisService
	DB        Pinger
	Models    ModelChecker
	Logger    logging.Logger
}

type RouterConfig struct {
	CORSAllowOrigins []string
	MaxUploadSize    int64
}

// multipartOverhead is added to MaxUploadSize for form boundaries and headers.
const multipartOverhead = 1 << 20

type handler struct {
	Deps
	maxUploadSize int64
}

func NewRouter(deps Deps, cfg RouterConfig) *gin.Engine {
	h := &handler{Deps: deps, maxUploadSize: cfg.MaxUploadSize}

	router := gin.New()
	router.Use(
		requestLogger(deps.Logger),
		gin.Recovery(),
		limitBodySize(cfg.MaxUploadSize+multipartOverhead),
	)
	// cors.New panics on an empty origin list; no origins means same-origin only.
	if len(cfg.CORSAllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", h.readyz)

	router.GET("/obtainToken", h.obtainToken)
	router.POST("/login", h.login)
	router.POST("/register", h.register)
	router.POST("/contact", h.contact)
	router.POST("/account", h.account)
	router.GET("/doctors", h.doctors)

	authed := router.Group("/", h.authRequired())
	authed.GET("/obtainData", h.obtainData)
	authed.POST("/upload_image", h.uploadImage(true))
	authed.POST("/upload_xray_photo", h.uploadImage(false))
	authed.POST("/change_password", h.changePassword)
	authed.POST("/deleteAccount", h.deleteAccount)
	authed.POST("/xray_diagnosis", h.xrayDiagnosis)

	return router
}

func (h *handler) readyz(c *gin.Context) {
	code := http.StatusOK
	body := gin.H{"status": "ok", "db": "disabled", "model": "disabled"}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			code, body["db"] = http.StatusServiceUnavailable, "unhealthy: "+err.Error()
		} else {
			body["db"] = "ok"
		}
	}

	if h.Models != nil {
		if h.Models.Ready(inference.GeneralModel) {
			body["model"] = "ok"
		} else {
			code, body["model"] = http.StatusServiceUnavailable, "not loaded"
		}
	}

	if code != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(code, body)
}
