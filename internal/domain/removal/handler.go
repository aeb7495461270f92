package removal

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisurv/medisurv/internal/platform/auth"
	"github.com/medisurv/medisurv/pkg/flash"
	"github.com/medisurv/medisurv/pkg/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	removals := g.Group("/removals")
	removals.GET("/:id", h.Get)
	removals.POST("", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))

	g.GET("/patients/:id/removals", h.ListByPatient)
}

func (h *Handler) Create(c echo.Context) error {
	var rm Removal
	if err := c.Bind(&rm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.CreateRemoval(c.Request().Context(), &rm); err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record medical removal").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("medical removal recorded", "/patients/"+rm.PatientID.String()+"/removals").WithData(rm))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid removal id")
	}
	rm, err := h.service.GetRemoval(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical removal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load medical removal").SetInternal(err)
	}
	return c.JSON(http.StatusOK, rm)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	removals, err := h.service.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list medical removals").SetInternal(err)
	}
	return c.JSON(http.StatusOK, removals)
}
