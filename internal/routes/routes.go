package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/tripwiseapp/tripwise-backend/internal/config"
	"github.com/tripwiseapp/tripwise-backend/internal/handlers"
	"github.com/tripwiseapp/tripwise-backend/internal/middleware"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	dir session.Directory,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	packageHandler *handlers.PackageHandler,
	reviewHandler *handlers.ReviewHandler,
	blogHandler *handlers.BlogHandler,
	festivalHandler *handlers.FestivalHandler,
	agencyHandler *handlers.AgencyHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public catalog and content
	api.Get("/packages", packageHandler.List)
	api.Get("/packages/:id", packageHandler.Get)
	api.Get("/packages/:id/reviews", reviewHandler.ListByPackage)
	api.Get("/blogs", blogHandler.List)
	api.Get("/blogs/:id", blogHandler.Get)
	api.Get("/festivals/popularity", festivalHandler.ListPopularity)
	api.Get("/locations", festivalHandler.ListLocations)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/signin", authHandler.Signin)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/session", authHandler.Session)

	// Protected routes - apply JWT middleware per route so the public
	// catalog and auth endpoints above stay public
	jwt := middleware.JWTProtected(cfg)
	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/auth/me", jwt, authHandler.Me)
	api.Put("/auth/me", jwt, authHandler.UpdateMe)
	api.Put("/auth/password", jwt, authHandler.UpdatePassword)
	api.Delete("/auth/delete", jwt, authHandler.DeleteAccount)

	// Signed-in users (any role)
	api.Post("/reviews", jwt, reviewHandler.Create)
	api.Get("/reviews/mine", jwt, reviewHandler.ListMine)
	api.Delete("/reviews/:id", jwt, reviewHandler.Delete)
	api.Post("/wishlist", jwt, reviewHandler.AddToWishlist)
	api.Get("/wishlist", jwt, reviewHandler.ListWishlist)
	api.Delete("/wishlist/:id", jwt, reviewHandler.RemoveFromWishlist)
	api.Post("/blogs", jwt, blogHandler.Create)
	api.Delete("/blogs/:id", jwt, blogHandler.Delete)
	api.Post("/festivals/submissions", jwt, festivalHandler.Submit)
	api.Post("/places/upsert", jwt, festivalHandler.UpsertPlace)

	// Agency-only package management; write routes share the public
	// /packages prefix, so the role gate is applied per route
	agencyOnly := middleware.RequireRoles(dir, models.RoleAgency)
	api.Post("/packages", jwt, agencyOnly, packageHandler.Create)
	api.Put("/packages/:id", jwt, agencyOnly, packageHandler.Update)
	api.Delete("/packages/:id", jwt, agencyOnly, packageHandler.Delete)

	agency := api.Group("/agency", jwt, agencyOnly)
	agency.Get("/profile", agencyHandler.Profile)
	agency.Put("/profile", agencyHandler.UpdateProfile)
	agency.Get("/packages", packageHandler.ListMine)

	// Admin panel (JWT + admin role)
	admin := api.Group("/admin", jwt, middleware.RequireRoles(dir, models.RoleAdmin))
	admin.Get("/agencies/pending", adminHandler.ListPendingAgencies)
	admin.Put("/agencies/:id/approve", adminHandler.ApproveAgency)
	admin.Delete("/agencies/:id", adminHandler.RejectAgency)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/festivals/submissions", adminHandler.ListPendingFestivals)
	admin.Put("/festivals/:id/approve", adminHandler.ApproveFestival)
	admin.Delete("/festivals/:id", adminHandler.RejectFestival)
	admin.Post("/locations", adminHandler.CreateLocation)
	admin.Put("/locations/:id", adminHandler.UpdateLocation)
	admin.Delete("/locations/:id", adminHandler.DeleteLocation)
}
