package admission

import (
	"github.com/gin-gonic/gin"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/middleware"
	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/service/admission"
	"github.com/sigemech/admission-api/internal/service/patient"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/httputil"
)

type Handler struct {
	admissions *admission.Service
	patients   *patient.Service
	cfg        config.AdmissionConfig
}

func NewHandler(admissions *admission.Service, patients *patient.Service, cfg config.AdmissionConfig) *Handler {
	return &Handler{
		admissions: admissions,
		patients:   patients,
		cfg:        cfg,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/admissions")
	{
		grp.POST("", h.Create)
		grp.POST("/maternal-check", h.MaternalCheck)
	}
}

// Create handles the single-shot admission submission: patient section,
// admission section and the optional representative and birth sections,
// committed atomically.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperror.Validation(err.Error(), err))
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperror.Unauthorized("missing user identity"))
		return
	}

	result, err := h.admissions.Create(c.Request.Context(), &req, userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}

type maternalCheckRequest struct {
	DocumentNumber string `json:"document_number" binding:"required"`
}

// MaternalCheck answers the pre-submission probe the newborn form uses
// before the clerk fills in the rest of the delivery data.
func (h *Handler) MaternalCheck(c *gin.Context) {
	var req maternalCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperror.Validation(err.Error(), err))
		return
	}

	result, err := h.patients.MaternalCheck(c.Request.Context(), req.DocumentNumber, h.cfg.MaternalRecencyWindow)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
