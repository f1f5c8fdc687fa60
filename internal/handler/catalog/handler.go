package catalog

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/internal/service/catalog"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/httputil"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/catalogs")
	{
		grp.GET("/ethnicities", h.Ethnicities)
		grp.GET("/ethnicities/:id/nationalities", h.Nationalities)
		grp.GET("/nationalities/:id/groups", h.Groups)
		grp.GET("/arrival-modes", h.ArrivalModes)
		grp.GET("/arrival-conditions", h.ArrivalConditions)
	}
}

func (h *Handler) Ethnicities(c *gin.Context) {
	list, err := h.svc.Ethnicities(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperror.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}

// Nationalities returns the level-2 options under an ethnicity. An
// ethnicity without sub-classification yields an empty list.
func (h *Handler) Nationalities(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid ethnicity id", err))
		return
	}
	list, err := h.svc.NationalitiesFor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, translateCatalogErr("ethnicity", err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) Groups(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid nationality id", err))
		return
	}
	list, err := h.svc.GroupsFor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, translateCatalogErr("nationality", err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func translateCatalogErr(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(resource, err)
	}
	return apperror.Internal(err)
}

func (h *Handler) ArrivalModes(c *gin.Context) {
	list, err := h.svc.ArrivalModes(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperror.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) ArrivalConditions(c *gin.Context) {
	list, err := h.svc.ArrivalConditions(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperror.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}
