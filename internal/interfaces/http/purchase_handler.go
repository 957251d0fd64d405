package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mit-motorsports/purchasing-api/internal/application/approval"
	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/fulfillment"
	"github.com/mit-motorsports/purchasing-api/internal/application/purchase"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
)

// PurchaseHandler exposes the purchase-order endpoints.
type PurchaseHandler struct {
	approvalUC    *approval.UseCase
	fulfillmentUC *fulfillment.UseCase
	purchaseUC    *purchase.UseCase
}

// NewPurchaseHandler builds the purchase handler.
func NewPurchaseHandler(approvalUC *approval.UseCase, fulfillmentUC *fulfillment.UseCase, purchaseUC *purchase.UseCase) *PurchaseHandler {
	return &PurchaseHandler{approvalUC: approvalUC, fulfillmentUC: fulfillmentUC, purchaseUC: purchaseUC}
}

// orderError maps domain sentinels to HTTP error responses.
func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "purchase order not found"})
	case errors.Is(err, domain.ErrNotDesignated):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_DESIGNATED", Message: "not the designated approver for this order"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operation not allowed for this role"})
	case errors.Is(err, domain.ErrStateConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STATE_CONFLICT", Message: "transition not valid from the order's current state"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Submit a purchase order
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "order data"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.approvalUC.Submit(c.Context(), GetActor(c), in)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List purchase orders (own, current or history view)
// @Tags         purchases
// @Produce      json
// @Param        view             query  string  false  "own | current | history (default own)"
// @Param        status           query  string  false  "fulfillment status filter"
// @Param        approval_status  query  string  false  "approval status filter"
// @Param        subteam          query  string  false  "subteam filter"
// @Param        search           query  string  false  "matches item, vendor or requester name"
// @Param        limit            query  int     false  "page size (default 20, max 100)"
// @Param        offset           query  int     false  "page offset"
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	view := policy.View(c.Query("view", string(policy.ViewOwn)))
	filter := repository.ListFilter{
		FulfillmentStatus: entity.FulfillmentStatus(c.Query("status")),
		ApprovalStatus:    entity.ApprovalStatus(c.Query("approval_status")),
		Subteam:           c.Query("subteam"),
		Search:            c.Query("search"),
		IncludeDeleted:    c.QueryBool("include_deleted"),
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}

	out, err := h.purchaseUC.List(c.Context(), GetActor(c), view, filter, page)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get one purchase order
// @Tags         purchases
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.purchaseUC.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Approve the order's current pending stage
// @Tags         purchases
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/approve [post]
func (h *PurchaseHandler) Approve(c *fiber.Ctx) error {
	out, err := h.approvalUC.Approve(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Reject the order at its current pending stage
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "order id"
// @Param        body  body  dto.DecisionRequest  false  "reason"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/reject [post]
func (h *PurchaseHandler) Reject(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
		}
	}
	out, err := h.approvalUC.Reject(c.Context(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Advance the fulfillment status (business only)
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "order id"
// @Param        body  body  dto.UpdateStatusRequest  true  "status, photo (required for Arrived)"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/status [put]
func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.fulfillmentUC.UpdateStatus(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Soft-delete an order (owner or business)
// @Tags         purchases
// @Param        id  path  string  true  "order id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.purchaseUC.SoftDelete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return orderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restore a soft-deleted order (owner or business)
// @Tags         purchases
// @Param        id  path  string  true  "order id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/restore [post]
func (h *PurchaseHandler) Restore(c *fiber.Ctx) error {
	if err := h.purchaseUC.Restore(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return orderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OrderSheet godoc
// @Summary      Download the printable order sheet (PDF)
// @Tags         purchases
// @Produce      application/pdf
// @Param        id  path  string  true  "order id"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/pdf [get]
func (h *PurchaseHandler) OrderSheet(c *fiber.Ctx) error {
	pdf, err := h.purchaseUC.OrderSheet(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="order-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// Statistics godoc
// @Summary      Pipeline statistics (requesters see only their own orders)
// @Tags         purchases
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Router       /api/statistics [get]
func (h *PurchaseHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.purchaseUC.Statistics(c.Context(), GetActor(c))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}
