package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT si viene y fija la Meta de auditoría
// (user_id e IP) en el contexto de usuario de la petición.
// Sin Authorization la petición sigue como anónima (user_id = null en la auditoría);
// un token mal formado, inválido o expirado responde 401.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta := uow.Meta{}
		if ip := c.IP(); ip != "" {
			meta.IP = &ip
		}
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
			}
			userID, role, err := jwt.Parse(jwtSecret, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
			meta.UserID = &userID
		}
		c.SetUserContext(uow.WithMeta(c.UserContext(), meta))
		return c.Next()
	}
}

// RequireRole restringe la ruta a los roles indicados cuando la petición está autenticada.
// Las peticiones anónimas pasan; se auditan sin usuario.
func RequireRole(allowed ...string) fiber.Handler {
	return requireRole(false, allowed)
}

// RequireAuthenticatedRole como RequireRole, pero una petición anónima recibe 401.
func RequireAuthenticatedRole(allowed ...string) fiber.Handler {
	return requireRole(true, allowed)
}

func requireRole(tokenRequired bool, allowed []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == 0 {
			if tokenRequired {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "esta operación requiere autenticación"})
			}
			return c.Next()
		}
		role := GetRole(c)
		for _, r := range allowed {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto (0 si la petición es anónima).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
