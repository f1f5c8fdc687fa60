package patient

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/service/patient"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/httputil"
)

type Handler struct {
	svc *patient.Service
	cfg config.AdmissionConfig
}

func NewHandler(svc *patient.Service, cfg config.AdmissionConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/patients")
	{
		grp.GET("/by-document/:document", h.FindByDocument)
		grp.GET("/:id/recent-admission", h.RecentAdmission)
	}
}

// FindByDocument prefills the admission form: it returns the stored
// patient for a document number, plus any admission still open.
func (h *Handler) FindByDocument(c *gin.Context) {
	result, err := h.svc.FindByDocument(c.Request.Context(), c.Param("document"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

// RecentAdmission reports whether the patient was admitted within the
// given window (hours, defaulting to the maternal recency window).
func (h *Handler) RecentAdmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid patient id", err))
		return
	}

	window := h.cfg.MaternalRecencyWindow
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			httputil.RespondWithError(c, apperror.Validation("hours must be a positive integer", err))
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	recent, err := h.svc.HasRecentAdmission(c.Request.Context(), id, window)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"recent_admission": recent})
}
