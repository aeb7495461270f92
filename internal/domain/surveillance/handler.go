package surveillance

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisurv/medisurv/internal/platform/auth"
	"github.com/medisurv/medisurv/pkg/flash"
	"github.com/medisurv/medisurv/pkg/pagination"
	"github.com/medisurv/medisurv/pkg/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	sv := g.Group("/surveillance")
	sv.GET("", h.List)
	sv.GET("/:id", h.Get)
	sv.POST("", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	sv.PUT("/:id", h.Update, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	sv.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))

	g.GET("/patients/:id/surveillance", h.ListByPatient)
}

// action defaults to save so a bare POST keeps draft semantics.
func action(c echo.Context) string {
	if a := c.QueryParam("action"); a != "" {
		return a
	}
	return ActionSave
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	records, total, err := h.service.ListRecords(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list surveillance records").SetInternal(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, params.Limit, params.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	records, err := h.service.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list surveillance records").SetInternal(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	rec, err := h.service.GetRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "surveillance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load surveillance record").SetInternal(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Create(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	next, err := h.service.CreateRecord(c.Request().Context(), &rec, action(c))
	if err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save surveillance record").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("surveillance record saved", next).WithData(rec))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	next, err := h.service.UpdateRecord(c.Request().Context(), id, &rec, action(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "surveillance record not found")
		}
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update surveillance record").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Success("surveillance record updated", next).WithData(rec))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	if err := h.service.DeleteRecord(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "surveillance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete surveillance record").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Info("surveillance record deleted", "/surveillance"))
}
