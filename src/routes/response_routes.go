package routes

import (
	"Backend-FlowForge/src/controllers"
	"Backend-FlowForge/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// responseRoutes wires the admin response-browsing API.
func responseRoutes(app *fiber.App) {
	flows := app.Group("/flows", middleware.AuthJWT, middleware.RequireAdmin)
	flows.Get("/:id/responses", controllers.GetResponsesByFlow)
	flows.Get("/:id/responses/export", controllers.ExportResponses)

	responses := app.Group("/responses", middleware.AuthJWT, middleware.RequireAdmin)
	responses.Get("/:id", controllers.GetResponseByID)
	responses.Put("/:id", controllers.UpdateResponse)
	responses.Delete("/:id", controllers.DeleteResponse)
}
