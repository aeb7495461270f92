package declaration

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
	decls := g.Group("/declarations")
	decls.GET("/:id", h.Get)
	decls.POST("", h.Save, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleNurse))
	decls.PUT("/:id/surveillance", h.LinkSurveillance, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))

	g.GET("/patients/:id/declarations", h.ListByPatient)
}

func (h *Handler) Save(c echo.Context) error {
	var d Declaration
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.SaveDeclaration(c.Request().Context(), &d); err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record declaration").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("declaration recorded", "/patients/"+d.PatientID.String()+"/declarations").WithData(d))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid declaration id")
	}
	d, err := h.service.GetDeclaration(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "declaration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load declaration").SetInternal(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	decls, err := h.service.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list declarations").SetInternal(err)
	}
	return c.JSON(http.StatusOK, decls)
}

type linkRequest struct {
	SurveillanceID uuid.UUID `json:"surveillance_id"`
}

func (h *Handler) LinkSurveillance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid declaration id")
	}
	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.LinkSurveillance(c.Request().Context(), id, req.SurveillanceID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "declaration not found")
		}
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to link surveillance").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Success("surveillance linked", "/declarations/"+id.String()))
}
