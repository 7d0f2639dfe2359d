package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/stocktake"
)

// InventoryHandler serves the stock-count workflow:
// create draft, start, count items, complete, export report.
type InventoryHandler struct {
	uc *stocktake.UseCase
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(uc *stocktake.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create godoc
// @Summary      Open a draft count sheet
// @Description  Snapshots each selected product's current stock as the
// @Description  expected quantity.
// @Tags         inventories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "Sheet name and product selection"
// @Success      201   {object}  dto.InventoryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid request body")
	}
	inv, err := h.uc.Create(c.UserContext(), in.Name, in.ProductIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InventoryFromEntity(inv))
}

// List godoc
// @Summary      List count sheets, newest first
// @Tags         inventories
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.InventoryDTO
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	sheets, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryDTO, 0, len(sheets))
	for _, inv := range sheets {
		out = append(out, dto.InventoryFromEntity(inv))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get a count sheet with its items
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "Sheet ID"
// @Success      200  {object}  dto.InventoryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if inv == nil {
		return notFound(c, "inventory not found")
	}
	return c.JSON(dto.InventoryFromEntity(inv))
}

// Start godoc
// @Summary      Move a draft sheet to in_progress
// @Tags         inventories
// @Param        id  path  string  true  "Sheet ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/start [post]
func (h *InventoryHandler) Start(c *fiber.Ctx) error {
	if err := h.uc.Start(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CountItem godoc
// @Summary      Record a counted quantity for one sheet item
// @Description  Zero is a valid count. Only in_progress sheets accept counts.
// @Tags         inventories
// @Accept       json
// @Param        id      path  string  true  "Sheet ID"
// @Param        itemID  path  string  true  "Sheet item ID"
// @Param        body    body  dto.CountItemRequest  true  "Counted quantity"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/items/{itemID} [put]
func (h *InventoryHandler) CountItem(c *fiber.Ctx) error {
	var in dto.CountItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid request body")
	}
	if err := h.uc.Count(c.UserContext(), c.Params("id"), c.Params("itemID"), in.Counted); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Complete a sheet and reconcile stock
// @Description  Emits one correcting movement per counted item whose
// @Description  difference is nonzero. Uncounted items are skipped.
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "Sheet ID"
// @Success      200  {object}  dto.InventoryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/complete [post]
func (h *InventoryHandler) Complete(c *fiber.Ctx) error {
	inv, err := h.uc.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryFromEntity(inv))
}

// Delete godoc
// @Summary      Delete a count sheet
// @Description  A completed sheet's correcting movements are reversed so
// @Description  derived stock stays consistent.
// @Tags         inventories
// @Param        id  path  string  true  "Sheet ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Export a count sheet as PDF
// @Tags         inventories
// @Produce      application/pdf
// @Param        id   path  string  true  "Sheet ID"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inwentaryzacja.pdf"`)
	return c.Send(pdfBytes)
}
