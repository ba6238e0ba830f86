package tasks

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getTaskID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.UUID{}, fiber.NewError(fiber.StatusBadRequest, "invalid task id: "+err.Error())
	}
	return id, nil
}
