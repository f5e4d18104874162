package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"claimhub/internal/errors"
	"claimhub/internal/model"
	"claimhub/internal/service"
)

// HRHandler handles HR user management and reporting endpoints.
type HRHandler struct {
	userService   service.UserService
	reportService service.ReportService
}

// NewHRHandler creates a new HR handler.
func NewHRHandler(userService service.UserService, reportService service.ReportService) *HRHandler {
	return &HRHandler{
		userService:   userService,
		reportService: reportService,
	}
}

// CreateUserRequest represents an HR user provisioning request.
type CreateUserRequest struct {
	Email             string `json:"email" validate:"required,email"`
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	Role              string `json:"role" validate:"required"`
	Department        string `json:"department"`
	HourlyRate        string `json:"hourly_rate" validate:"required"`
	TemporaryPassword string `json:"temporary_password" validate:"required,min=8"`
}

// UpdateUserRequest represents an HR user edit request.
type UpdateUserRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	HourlyRate string `json:"hourly_rate" validate:"required"`
	Active     bool   `json:"active"`
}

// CreateUser godoc
// @Summary Create a user
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /hr/users [post]
func (h *HRHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || rate.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid hourly_rate",
			Code:  "INVALID_RATE",
		})
	}

	user, err := h.userService.CreateUser(c.Request().Context(), service.CreateUserInput{
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Role:              model.Role(req.Role),
		Department:        req.Department,
		HourlyRate:        rate,
		TemporaryPassword: req.TemporaryPassword,
	})
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return echo.NewHTTPError(http.StatusConflict, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_ALREADY_EXISTS",
			})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "User data"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /hr/users/{id} [put]
func (h *HRHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || rate.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid hourly_rate",
			Code:  "INVALID_RATE",
		})
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, service.UpdateUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       model.Role(req.Role),
		Department: req.Department,
		HourlyRate: rate,
		Active:     req.Active,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /hr/users [get]
func (h *HRHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /hr/users/{id} [get]
func (h *HRHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Users that own claims cannot be deleted; claims are append-only.
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /hr/users/{id} [delete]
func (h *HRHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

// Stats godoc
// @Summary HR dashboard stats
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Router /hr/stats [get]
func (h *HRHandler) Stats(c echo.Context) error {
	stats, err := h.reportService.Stats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// MonthlyReport godoc
// @Summary Monthly approved-claims report
// @Description Per-lecturer totals of approved claims for a calendar month.
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param year query int true "Report year"
// @Param month query int true "Report month (1-12)"
// @Success 200 {object} service.MonthlyReport
// @Failure 400 {object} errors.ErrorResponse
// @Router /hr/reports/monthly [get]
func (h *HRHandler) MonthlyReport(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2200 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid year",
			Code:  "INVALID_REPORT_PERIOD",
		})
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid month",
			Code:  "INVALID_REPORT_PERIOD",
		})
	}

	report, err := h.reportService.MonthlyReport(c.Request().Context(), year, time.Month(month))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, report)
}
