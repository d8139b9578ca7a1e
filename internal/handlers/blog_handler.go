package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/services"
)

type BlogHandler struct {
	blogs *services.BlogService
}

func NewBlogHandler(blogs *services.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.BlogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Title and content are required",
		})
	}

	blog, err := h.blogs.Create(c.UserContext(), userID, req.Title, req.Content, req.Category, req.ImageURLs)
	if err != nil {
		if errors.Is(err, services.ErrContentRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create blog",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	blogs, err := h.blogs.List(c.UserContext(), services.BlogFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list blogs",
		})
	}
	return c.JSON(fiber.Map{"blogs": blogs, "count": len(blogs)})
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid blog ID",
		})
	}

	blog, err := h.blogs.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Blog not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch blog",
		})
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid blog ID",
		})
	}

	if err := h.blogs.Delete(c.UserContext(), userID, id); err != nil {
		switch {
		case errors.Is(err, services.ErrBlogNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Blog not found",
			})
		case errors.Is(err, services.ErrNotBlogOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Blog belongs to another author",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to delete blog",
			})
		}
	}
	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}
