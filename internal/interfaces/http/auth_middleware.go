package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/pkg/jwt"
)

// Locals keys para UserID, CompanyID y Role en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// Roles reconocidos en el token.
const (
	RoleAdmin     = "admin"
	RoleContabile = "contabile"
	RoleOperatore = "operatore"
)

// AuthMiddleware valida el Bearer Token y carga UserID, CompanyID y Role en c.Locals.
// Los tokens los emite el servicio de identidad. Con verifier nil toda petición recibe 401.
func AuthMiddleware(verifier *jwt.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if verifier == nil {
			return authError(c, "AUTH_DISABLED", "JWT_SECRET no configurado")
		}
		scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get("Authorization")), " ")
		switch {
		case scheme == "":
			return authError(c, "MISSING_TOKEN", "Authorization header requerido")
		case !ok || !strings.EqualFold(scheme, "Bearer"):
			return authError(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return authError(c, "MISSING_TOKEN", "token vacío")
		}

		id, err := verifier.Verify(token)
		if errors.Is(err, jwt.ErrExpired) {
			return authError(c, "TOKEN_EXPIRED", "token expirado")
		}
		if err != nil {
			return authError(c, "INVALID_TOKEN", "token inválido")
		}
		if id.CompanyID == "" {
			return authError(c, "INVALID_TOKEN", "token sin company_id")
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalCompanyID, id.CompanyID)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

func authError(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// RequireRole permite el acceso solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return authError(c, "MISSING_ROLE", "el token no incluye rol")
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para esta operación"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	return localString(c, LocalCompanyID)
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
