package uploads

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisurv/medisurv/internal/platform/auth"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(g *echo.Group) {
	gate := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)
	up := g.Group("/uploads", gate)
	up.POST("/letterheads", h.uploadKind(KindLetterhead))
	up.GET("/letterheads", h.listKind(KindLetterhead))
	up.GET("/letterheads/:id", h.downloadKind(KindLetterhead))
	up.POST("/signatures", h.uploadKind(KindSignature))
	up.GET("/signatures", h.listKind(KindSignature))
	up.GET("/signatures/:id", h.downloadKind(KindSignature))
}

func (h *Handler) uploadKind(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := auth.UserIDFromContext(c.Request().Context())
		if userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "session required")
		}
		uploadedBy, err := uuid.Parse(userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session identity")
		}

		file, err := c.FormFile("file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "file is required")
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file").SetInternal(err)
		}
		defer src.Close()

		doc, err := h.store.Save(c.Request().Context(), kind, uploadedBy,
			file.Filename, file.Header.Get("Content-Type"), src)
		if err != nil {
			switch {
			case errors.Is(err, ErrFileTooLarge):
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
			case errors.Is(err, ErrInvalidContentType):
				return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
			case errors.Is(err, ErrBadDimensions):
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "upload failed").SetInternal(err)
			}
		}
		return c.JSON(http.StatusCreated, doc)
	}
}

func (h *Handler) listKind(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		docs, err := h.store.List(c.Request().Context(), kind)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list uploads").SetInternal(err)
		}
		if docs == nil {
			docs = []*Document{}
		}
		return c.JSON(http.StatusOK, docs)
	}
}

func (h *Handler) downloadKind(kind Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid upload id")
		}
		rc, doc, err := h.store.Open(c.Request().Context(), kind, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "upload not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to open upload").SetInternal(err)
		}
		defer rc.Close()

		c.Response().Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename=%q`, doc.OriginalName))
		return c.Stream(http.StatusOK, doc.ContentType, rc)
	}
}
