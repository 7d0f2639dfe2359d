package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/magazynpro/magazyn-api/internal/application/billing"
	"github.com/magazynpro/magazyn-api/internal/application/dto"
)

// maxUploadBytes caps the accepted invoice PDF size (10 MiB).
const maxUploadBytes = 10 << 20

// InvoiceHandler serves purchase-invoice ingestion and lookup.
type InvoiceHandler struct {
	uc *billing.UseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Parse godoc
// @Summary      Extract invoice data from an uploaded PDF
// @Tags         invoices
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Invoice PDF"
// @Success      200   {object}  dto.ParsedInvoiceData
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/parse [post]
func (h *InvoiceHandler) Parse(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "multipart field 'file' is required")
	}
	if fh.Size > maxUploadBytes {
		return badRequest(c, "FILE_TOO_LARGE", "file exceeds the 10 MiB limit")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "cannot open uploaded file")
	}
	defer f.Close()
	pdfBytes, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return badRequest(c, "INVALID_FILE", "cannot read uploaded file")
	}

	// Extraction never fails: heuristics guarantee a usable draft.
	return c.JSON(h.uc.Parse(c.UserContext(), pdfBytes))
}

// Confirm godoc
// @Summary      Confirm extracted invoice data and register stock
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmInvoiceRequest  true  "Reviewed invoice data"
// @Success      201   {object}  dto.InvoiceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid request body")
	}
	inv, err := h.uc.Confirm(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceFromEntity(inv))
}

// GetByID godoc
// @Summary      Get an invoice with its line items
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "Invoice ID"
// @Success      200  {object}  dto.InvoiceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if inv == nil {
		return notFound(c, "invoice not found")
	}
	return c.JSON(dto.InvoiceFromEntity(inv))
}

// List godoc
// @Summary      List invoices, newest first
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.InvoiceDTO
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	invoices, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.InvoiceFromEntity(inv))
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete an invoice and reverse its stock movements
// @Tags         invoices
// @Param        id  path  string  true  "Invoice ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
