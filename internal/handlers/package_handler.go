package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

type PackageHandler struct {
	packages *services.PackageService
	dir      session.Directory
}

func NewPackageHandler(packages *services.PackageService, dir session.Directory) *PackageHandler {
	return &PackageHandler{packages: packages, dir: dir}
}

func (h *PackageHandler) List(c *fiber.Ctx) error {
	filter := services.PackageFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Sort:     c.Query("sort"),
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid max_price",
			})
		}
		filter.MaxPrice = price
	}

	packages, err := h.packages.List(c.UserContext(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list packages",
		})
	}
	return c.JSON(fiber.Map{"packages": packages, "count": len(packages)})
}

func (h *PackageHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid package ID",
		})
	}

	pkg, err := h.packages.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrPackageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Package not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch package",
		})
	}
	return c.JSON(pkg)
}

func (h *PackageHandler) ListMine(c *fiber.Ctx) error {
	agency, ok := h.requireApprovedAgency(c)
	if !ok {
		return nil
	}

	packages, err := h.packages.ListByAgency(c.UserContext(), agency.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list packages",
		})
	}
	return c.JSON(fiber.Map{"packages": packages, "count": len(packages)})
}

func (h *PackageHandler) Create(c *fiber.Ctx) error {
	agency, ok := h.requireApprovedAgency(c)
	if !ok {
		return nil
	}

	in, err := parsePackageRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	pkg, err := h.packages.Create(c.UserContext(), agency.ID, *in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown package category",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create package",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func (h *PackageHandler) Update(c *fiber.Ctx) error {
	agency, ok := h.requireApprovedAgency(c)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid package ID",
		})
	}

	in, err := parsePackageRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	pkg, err := h.packages.Update(c.UserContext(), agency.ID, id, *in)
	if err != nil {
		return packageWriteError(c, err)
	}
	return c.JSON(pkg)
}

func (h *PackageHandler) Delete(c *fiber.Ctx) error {
	agency, ok := h.requireApprovedAgency(c)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid package ID",
		})
	}

	if err := h.packages.Delete(c.UserContext(), agency.ID, id); err != nil {
		return packageWriteError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Package deleted successfully"})
}

// requireApprovedAgency loads the caller's agency profile and enforces the
// approval gate. On failure it writes the response itself and returns ok=false.
func (h *PackageHandler) requireApprovedAgency(c *fiber.Ctx) (*models.Agency, bool) {
	userID, err := middleware.UserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return nil, false
	}

	agency, err := h.dir.AgencyByUserID(c.UserContext(), userID)
	if err != nil {
		_ = c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "No agency profile for this account",
		})
		return nil, false
	}
	if agency.Status != models.AgencyStatusApproved {
		_ = c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Your agency account is pending approval by an admin.",
		})
		return nil, false
	}
	return agency, true
}

func parsePackageRequest(c *fiber.Ctx) (*services.PackageInput, error) {
	var req dto.PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if req.Title == "" || req.Location == "" {
		return nil, errors.New("title and location are required")
	}
	if req.Price <= 0 {
		return nil, errors.New("price must be positive")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, errors.New("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, errors.New("end_date must not precede start_date")
	}

	return &services.PackageInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Duration:    req.Duration,
		StartDate:   start,
		EndDate:     end,
		Category:    req.Category,
	}, nil
}

func packageWriteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPackageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Package not found",
		})
	case errors.Is(err, services.ErrNotPackageOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Package belongs to another agency",
		})
	case errors.Is(err, services.ErrInvalidCategory):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown package category",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save package",
		})
	}
}
