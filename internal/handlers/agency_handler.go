package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

type AgencyHandler struct {
	agencies *services.AgencyService
	dir      session.Directory
}

func NewAgencyHandler(agencies *services.AgencyService, dir session.Directory) *AgencyHandler {
	return &AgencyHandler{agencies: agencies, dir: dir}
}

func (h *AgencyHandler) Profile(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	agency, err := h.dir.AgencyByUserID(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No agency profile for this account",
		})
	}
	return c.JSON(agency)
}

func (h *AgencyHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AgencyProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.AgencyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Agency name is required",
		})
	}

	agency, err := h.agencies.UpdateProfile(c.UserContext(), userID, services.AgencyProfileUpdate{
		AgencyName:    req.AgencyName,
		ContactNumber: req.ContactNumber,
		Website:       req.Website,
		Description:   req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrAgencyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "No agency profile for this account",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update agency profile",
		})
	}
	return c.JSON(agency)
}
