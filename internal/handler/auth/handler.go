package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/service/auth"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/auth")
	{
		grp.POST("/login", h.Login)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperror.Validation(err.Error(), err))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, res)
}
