package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse — единый формат ошибки API: {"message": "..."}.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse — ответ без полезной нагрузки, только текст результата.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func Message(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, MessageResponse{Message: message})
}
