package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mit-motorsports/purchasing-api/internal/application/approval"
	"github.com/mit-motorsports/purchasing-api/internal/application/auth"
	"github.com/mit-motorsports/purchasing-api/internal/application/fulfillment"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/application/purchase"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	ApprovalUC    *approval.UseCase
	FulfillmentUC *fulfillment.UseCase
	PurchaseUC    *purchase.UseCase
	Files         ports.FileStore
	JWTSecret     string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything else requires a Bearer token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.ApprovalUC, deps.FulfillmentUC, deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/approve", purchaseHandler.Approve)
	purchases.Post("/:id/reject", purchaseHandler.Reject)
	purchases.Put("/:id/status", RequireRole(string(entity.RoleBusiness)), purchaseHandler.UpdateStatus)
	purchases.Delete("/:id", purchaseHandler.Delete)
	purchases.Post("/:id/restore", purchaseHandler.Restore)
	purchases.Get("/:id/pdf", purchaseHandler.OrderSheet)

	protected.Get("/statistics", purchaseHandler.Statistics)

	uploads := protected.Group("/uploads", RequireRole(string(entity.RoleBusiness)))
	uploadHandler := NewUploadHandler(deps.Files)
	uploads.Post("/", uploadHandler.Upload)
}
