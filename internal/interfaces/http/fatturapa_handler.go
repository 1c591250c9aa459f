package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
)

// FatturaPAHandler endpoints sin estado: validar, generar e inspeccionar documentos.
type FatturaPAHandler struct {
	uc *billing.FatturaPAUseCase
}

// NewFatturaPAHandler construye el handler.
func NewFatturaPAHandler(uc *billing.FatturaPAUseCase) *FatturaPAHandler {
	return &FatturaPAHandler{uc: uc}
}

// Validate godoc
// @Summary      Validar datos FatturaPA
// @Description  Ejecuta todas las reglas de validación y devuelve la lista completa de errores.
//               Responde 200 también cuando el documento no es válido.
// @Tags         fatturapa
// @Accept       json
// @Produce      json
// @Param        body  body      dto.FatturaPARequest  true  "company, client, invoice, lineItems"
// @Success      200   {object}  dto.ValidateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /fatturapa/validate [post]
func (h *FatturaPAHandler) Validate(c *fiber.Ctx) error {
	var in dto.FatturaPARequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Validate(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Generate godoc
// @Summary      Generar XML FatturaPA FPR12
// @Description  Valida y devuelve el XML como adjunto <IdPaese><IdCodice>_<progressivo>.xml.
//               Con datos inválidos responde 422 con la lista de errores.
// @Tags         fatturapa
// @Accept       json
// @Produce      xml
// @Param        body  body      dto.FatturaPARequest  true  "company, client, invoice, lineItems"
// @Success      200   {string}  string                "documento XML"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /fatturapa/generate [post]
func (h *FatturaPAHandler) Generate(c *fiber.Ctx) error {
	var in dto.FatturaPARequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Generate(in)
	if err != nil {
		return writeError(c, err)
	}
	return sendXML(c, out)
}

// Inspect godoc
// @Summary      Inspeccionar un XML FatturaPA
// @Description  Devuelve un resumen (emisor, cliente, número, totales, firma) de un documento generado o recibido.
// @Tags         fatturapa
// @Accept       xml
// @Produce      json
// @Param        body  body      string  true  "documento FatturaPA"
// @Success      200   {object}  object  "emisor, cliente, número, totales, firma"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /fatturapa/inspect [post]
func (h *FatturaPAHandler) Inspect(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return badBody(c)
	}
	sum, err := h.uc.Inspect(body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sum)
}

func sendXML(c *fiber.Ctx, out *dto.GeneratedFatturaPA) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
	return c.SendString(out.XML)
}
