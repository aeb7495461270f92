package company

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
	companies := g.Group("/companies")
	companies.GET("", h.List)
	companies.GET("/:id", h.Get)
	companies.POST("", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleNurse))
	companies.PUT("/:id", h.Update, auth.RequireRole(auth.RoleAdmin, auth.RoleNurse))
	companies.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
	companies.POST("/recount", h.Recount, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	companies, total, err := h.service.ListCompanies(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list companies").SetInternal(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(companies, total, params.Limit, params.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	co, err := h.service.GetCompany(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load company").SetInternal(err)
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) Create(c echo.Context) error {
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.CreateCompany(c.Request().Context(), &co); err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to register company").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("company registered", "/companies/"+co.Code).WithData(co))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid company id")
	}
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.UpdateCompany(c.Request().Context(), id, &co); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update company").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Success("company updated", "/companies/"+co.Code).WithData(co))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid company id")
	}
	if err := h.service.DeleteCompany(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete company").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Info("company deleted", "/companies"))
}

func (h *Handler) Recount(c echo.Context) error {
	n, err := h.service.RecomputeAllWorkerCounts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "worker count recompute failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, flash.Success("worker counts refreshed", "/companies").WithData(map[string]int{"companies": n}))
}
