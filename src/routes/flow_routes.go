package routes

import (
	"Backend-FlowForge/src/controllers"
	"Backend-FlowForge/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// flowRoutes wires the flow authoring API. Reads are open; mutations require
// an admin token.
func flowRoutes(app *fiber.App) {
	flows := app.Group("/flows")

	flows.Get("/", controllers.GetFlows)
	flows.Get("/type/:type", controllers.GetFlowsByType)
	flows.Get("/type/:type/default", controllers.GetDefaultFlow)
	flows.Get("/:id", controllers.GetFlowByID)

	admin := flows.Group("/", middleware.AuthJWT, middleware.RequireAdmin)
	admin.Post("/", controllers.CreateFlow)
	admin.Put("/:id", controllers.UpdateFlow)
	admin.Delete("/:id", controllers.DeleteFlow)
	admin.Post("/:id/publish", controllers.PublishFlow)
	admin.Post("/:id/archive", controllers.ArchiveFlow)
	admin.Post("/:id/default", controllers.SetDefaultFlow)
}
