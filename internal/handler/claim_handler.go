package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"claimhub/internal/errors"
	"claimhub/internal/service"
)

// ClaimHandler handles lecturer claim endpoints.
type ClaimHandler struct {
	claimService service.ClaimService
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(claimService service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// PreviewRequest represents a live calculation request.
type PreviewRequest struct {
	HoursWorked int `json:"hours_worked" validate:"required,min=1"`
}

// SubmitClaim godoc
// @Summary Submit a new claim
// @Description Multipart form with contract, category, hours_worked, and an optional receipt file. The hourly rate always comes from the submitter's profile.
// @Tags claims
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param contract formData string true "Funding contract"
// @Param category formData string true "Claim category"
// @Param hours_worked formData int true "Hours worked"
// @Param receipt formData file false "Receipt (pdf, docx, xlsx; max 5 MiB)"
// @Success 201 {object} model.Claim
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /claims [post]
func (h *ClaimHandler) SubmitClaim(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	hoursWorked, err := strconv.Atoi(c.FormValue("hours_worked"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "hours_worked must be an integer",
			Code:  "INVALID_HOURS",
		})
	}

	input := service.SubmitClaimInput{
		Contract:    c.FormValue("contract"),
		Category:    c.FormValue("category"),
		HoursWorked: hoursWorked,
	}

	if fileHeader, err := c.FormFile("receipt"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "could not read receipt",
				Code:  "INVALID_RECEIPT",
			})
		}
		defer file.Close()

		input.Attachment = &service.AttachmentUpload{
			AttachmentMeta: service.AttachmentMeta{
				Name:        fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
			},
			Body: file,
		}
	}

	claim, err := h.claimService.Submit(c.Request().Context(), actor, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, claim)
}

// CalculatePreview godoc
// @Summary Preview a claim amount
// @Description Computes the amount at the caller's current rate together with month-to-date hours and remaining allowance.
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreviewRequest true "Hours to preview"
// @Success 200 {object} service.ClaimPreview
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /claims/preview [post]
func (h *ClaimHandler) CalculatePreview(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	preview, err := h.claimService.CalculatePreview(c.Request().Context(), actor.ID, req.HoursWorked)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, preview)
}

// ListMyClaims godoc
// @Summary List the caller's claims
// @Description Returns the caller's claims most recent first, for the tracking view.
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Claim
// @Failure 401 {object} errors.ErrorResponse
// @Router /claims/mine [get]
func (h *ClaimHandler) ListMyClaims(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	claims, err := h.claimService.ListForOwner(c.Request().Context(), actor.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, claims)
}

// GetClaim godoc
// @Summary Get a claim by id
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} model.Claim
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /claims/{id} [get]
func (h *ClaimHandler) GetClaim(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid claim id",
			Code:  "INVALID_UUID",
		})
	}

	claim, err := h.claimService.GetClaim(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, claim)
}

// GetReceipt godoc
// @Summary Get a download URL for a claim's receipt
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /claims/{id}/receipt [get]
func (h *ClaimHandler) GetReceipt(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid claim id",
			Code:  "INVALID_UUID",
		})
	}

	url, err := h.claimService.AttachmentURL(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
