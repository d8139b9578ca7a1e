package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
)

// AdminHandler groups the moderation surface: agency approval, festival
// submission review, location management and the user directory.
type AdminHandler struct {
	agencies  *services.AgencyService
	festivals *services.FestivalService
	locations *services.LocationService
}

func NewAdminHandler(agencies *services.AgencyService, festivals *services.FestivalService, locations *services.LocationService) *AdminHandler {
	return &AdminHandler{agencies: agencies, festivals: festivals, locations: locations}
}

func (h *AdminHandler) ListPendingAgencies(c *fiber.Ctx) error {
	agencies, err := h.agencies.ListPending(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list pending agencies",
		})
	}
	return c.JSON(fiber.Map{"agencies": agencies, "count": len(agencies)})
}

func (h *AdminHandler) ApproveAgency(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid agency ID",
		})
	}

	if err := h.agencies.Approve(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrAgencyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Agency not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to approve agency",
		})
	}
	return c.JSON(fiber.Map{"message": "Agency approved"})
}

func (h *AdminHandler) RejectAgency(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid agency ID",
		})
	}

	if err := h.agencies.Reject(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrAgencyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Agency not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to reject agency",
		})
	}
	return c.JSON(fiber.Map{"message": "Agency rejected"})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.agencies.ListUsers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

func (h *AdminHandler) ListPendingFestivals(c *fiber.Ctx) error {
	subs, err := h.festivals.ListPending(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list pending submissions",
		})
	}
	return c.JSON(fiber.Map{"submissions": subs, "count": len(subs)})
}

func (h *AdminHandler) ApproveFestival(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission ID",
		})
	}

	if err := h.festivals.Approve(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to approve submission",
		})
	}
	return c.JSON(fiber.Map{"message": "Festival submission approved"})
}

func (h *AdminHandler) RejectFestival(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid submission ID",
		})
	}

	if err := h.festivals.Reject(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to reject submission",
		})
	}
	return c.JSON(fiber.Map{"message": "Festival submission rejected"})
}

func (h *AdminHandler) CreateLocation(c *fiber.Ctx) error {
	loc, err := parseLocationRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	if err := h.locations.Create(c.UserContext(), loc); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create location",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

func (h *AdminHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid location ID",
		})
	}

	loc, err := parseLocationRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	if err := h.locations.Update(c.UserContext(), id, loc); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Location not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update location",
		})
	}
	return c.JSON(loc)
}

func (h *AdminHandler) DeleteLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid location ID",
		})
	}

	if err := h.locations.Delete(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete location",
		})
	}
	return c.JSON(fiber.Map{"message": "Location deleted"})
}

func parseLocationRequest(c *fiber.Ctx) (*models.Location, error) {
	var req dto.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	return &models.Location{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}, nil
}
