package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/inventory"
)

// MovementHandler serves the stock ledger: manual adjustments plus amendments
// of existing entries. Every write keeps current_stock in sync.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler builds the handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterAdjustment godoc
// @Summary      Record a manual stock adjustment
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Adjustment (signed quantity)"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid request body")
	}
	m, err := h.uc.RegisterAdjustment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(m))
}

// Update godoc
// @Summary      Amend a ledger entry
// @Description  The product's current stock is adjusted by the quantity delta.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Movement ID"
// @Param        body  body  dto.UpdateMovementRequest  true  "New quantity and notes"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid request body")
	}
	if err := h.uc.UpdateMovement(c.UserContext(), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Remove a ledger entry and roll back its stock effect
// @Tags         movements
// @Param        id  path  string  true  "Movement ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByProduct godoc
// @Summary      List a product's movement history, newest first
// @Tags         movements
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        limit   query  int     false  "Limit"   default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.MovementDTO
// @Router       /api/products/{id}/movements [get]
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	movements, err := h.uc.ListByProduct(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

// ListRecent godoc
// @Summary      List recent movements across all products
// @Tags         movements
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.MovementDTO
// @Router       /api/movements [get]
func (h *MovementHandler) ListRecent(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	movements, err := h.uc.ListRecent(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}
