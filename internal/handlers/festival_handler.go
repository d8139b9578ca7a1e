package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
)

type FestivalHandler struct {
	festivals *services.FestivalService
	locations *services.LocationService
}

func NewFestivalHandler(festivals *services.FestivalService, locations *services.LocationService) *FestivalHandler {
	return &FestivalHandler{festivals: festivals, locations: locations}
}

func (h *FestivalHandler) Submit(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.FestivalSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	sub, err := h.festivals.Submit(c.UserContext(), userID, services.FestivalSubmissionInput{
		FestivalName:      req.FestivalName,
		Description:       req.Description,
		CelebratedRegions: req.CelebratedRegions,
		State:             req.State,
		District:          req.District,
		Taluka:            req.Taluka,
	})
	if err != nil {
		if errors.Is(err, services.ErrContentRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *FestivalHandler) ListPopularity(c *fiber.Ctx) error {
	rows, err := h.festivals.ListPopularity(c.UserContext(), c.Query("state"), c.Query("festival"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list festival popularity",
		})
	}
	return c.JSON(fiber.Map{"festivals": rows, "count": len(rows)})
}

func (h *FestivalHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list locations",
		})
	}
	return c.JSON(fiber.Map{"locations": locations, "count": len(locations)})
}

// UpsertPlace records or refreshes an aggregated popular place, keyed by the
// caller-supplied identifier so repeated syncs update in place.
func (h *FestivalHandler) UpsertPlace(c *fiber.Ctx) error {
	var req dto.PlaceUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.ID == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "id and name are required",
		})
	}

	blogIDs, err := toJSONArray(req.BlogIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid blog_ids",
		})
	}
	reviewIDs, err := toJSONArray(req.ReviewIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review_ids",
		})
	}

	place := models.PopularPlace{
		ID:              req.ID,
		Name:            req.Name,
		Lat:             req.Lat,
		Long:            req.Long,
		PopularityScore: req.PopularityScore,
		CategoryGuess:   req.CategoryGuess,
		BlogIDs:         blogIDs,
		ReviewIDs:       reviewIDs,
		AddedAt:         time.Now().UTC(),
	}
	if err := h.locations.UpsertPlace(c.UserContext(), &place); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save place",
		})
	}
	return c.JSON(place)
}

func toJSONArray(ids []string) (datatypes.JSON, error) {
	if ids == nil {
		ids = []string{}
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, err
		}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
