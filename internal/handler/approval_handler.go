package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"claimhub/internal/errors"
	"claimhub/internal/service"
)

// ApprovalHandler handles coordinator review endpoints.
type ApprovalHandler struct {
	claimService    service.ClaimService
	approvalService service.ApprovalService
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(claimService service.ClaimService, approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{
		claimService:    claimService,
		approvalService: approvalService,
	}
}

// ListPending godoc
// @Summary List pending claims
// @Description The review queue, ordered by claim date ascending for oldest-first triage.
// @Tags review
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Claim
// @Failure 401 {object} errors.ErrorResponse
// @Router /review/claims [get]
func (h *ApprovalHandler) ListPending(c echo.Context) error {
	claims, err := h.claimService.ListPending(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, claims)
}

// Approve godoc
// @Summary Approve a pending claim
// @Description Re-runs the automated checks against current store state before the transition; only pending claims may be approved.
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} model.Claim
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /review/claims/{id}/approve [post]
func (h *ApprovalHandler) Approve(c echo.Context) error {
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

	claim, err := h.approvalService.Approve(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, claim)
}

// Reject godoc
// @Summary Reject a pending claim
// @Description Only pending claims may be rejected; approved claims are final.
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} model.Claim
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /review/claims/{id}/reject [post]
func (h *ApprovalHandler) Reject(c echo.Context) error {
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

	claim, err := h.approvalService.Reject(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, claim)
}
