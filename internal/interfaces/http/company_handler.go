package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
)

// CompanyHandler perfil fiscal de la empresa autenticada.
type CompanyHandler struct {
	uc *billing.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *billing.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Perfil fiscal de la empresa
// @Tags         company
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar perfil fiscal de la empresa
// @Description  Solo rol admin.
// @Tags         company
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CompanyRequest  true  "ragioneSociale, partitaIva, sede, regime fiscale"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /company [put]
func (h *CompanyHandler) Save(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Save(companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
