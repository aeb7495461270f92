package reports

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/medisurv/medisurv/internal/platform/auth"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	gate := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)
	g.GET("/reports/patients.xlsx", h.export("patients.xlsx", h.service.PatientRegister), gate)
	g.GET("/reports/surveillance.xlsx", h.export("surveillance.xlsx", h.service.SurveillanceSummary), gate)
}

func (h *Handler) export(filename string, build func(context.Context) (*excelize.File, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, err := build(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "report generation failed").SetInternal(err)
		}
		defer f.Close()

		c.Response().Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		c.Response().WriteHeader(http.StatusOK)
		return f.Write(c.Response())
	}
}
