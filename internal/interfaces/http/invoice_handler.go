package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	invoiceUC   *billing.InvoiceUseCase
	fatturapaUC *billing.FatturaPAUseCase
	sdi         *billing.SDIOrchestrator
	pdfUC       *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	invoiceUC *billing.InvoiceUseCase,
	fatturapaUC *billing.FatturaPAUseCase,
	sdi *billing.SDIOrchestrator,
	pdfUC *billing.PDFUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, fatturapaUC: fatturapaUC, sdi: sdi, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "cliente, líneas, tipo IVA, descuento, fechas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.invoiceUC.Create(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	invoice, err := h.invoiceUC.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}

// GenerateFatturaPA godoc
// @Summary      Generar y guardar el XML FatturaPA de una factura
// @Tags         invoices
// @Security     BearerAuth
// @Produce      xml
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {string}  string  "documento XML"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/fatturapa [post]
func (h *InvoiceHandler) GenerateFatturaPA(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.fatturapaUC.GenerateForInvoice(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendXML(c, out)
}

// SubmitSDI godoc
// @Summary      Enviar factura al SdI
// @Description  Firma y transmite en segundo plano. Responde 202; el resultado se consulta en /status.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/sdi [post]
func (h *InvoiceHandler) SubmitSDI(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.sdi.Submit(companyID, id); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id, "status": "processing"})
}

// GetStatus godoc
// @Summary      Estado SdI de la factura
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceSDIStatusDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/status [get]
func (h *InvoiceHandler) GetStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	st, err := h.invoiceUC.GetStatus(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// DownloadPDF godoc
// @Summary      Descargar copia de cortesía en PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, filename, err := h.pdfUC.DownloadCourtesyCopy(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Export godoc
// @Summary      Exportar XML generados en ZIP
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      application/zip
// @Param        body  body      dto.ExportRequest  true  "invoiceIds"
// @Success      200   {file}    file
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /invoices/export [post]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	data, filename, err := h.fatturapaUC.ExportZip(c.Context(), companyID, in.InvoiceIDs)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
