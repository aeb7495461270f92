package account

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
	g.POST("/auth/login", h.Login)
	g.GET("/auth/me", h.Me)
	g.POST("/users", h.CreateUser, auth.RequireRole(auth.RoleAdmin))

	g.GET("/staff", h.ListStaff)
	g.POST("/staff", h.CreateStaff, auth.RequireRole(auth.RoleAdmin))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	token, user, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the account behind the presented session token.
func (h *Handler) Me(c echo.Context) error {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	u, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
	}
	return c.JSON(http.StatusOK, u)
}

type createUserRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	DisplayName *string `json:"display_name"`
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.service.CreateUser(c.Request().Context(), req.Username, req.Password, req.Role, req.DisplayName)
	if err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("user created", "/users").WithData(u))
}

func (h *Handler) ListStaff(c echo.Context) error {
	staff, err := h.service.ListStaff(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list medical staff").SetInternal(err)
	}
	return c.JSON(http.StatusOK, staff)
}

func (h *Handler) CreateStaff(c echo.Context) error {
	var st Staff
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.CreateStaff(c.Request().Context(), &st); err != nil {
		if validation.IsError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add medical staff").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, flash.Success("medical staff added", "/staff").WithData(st))
}
