package routes

import (
	"Backend-FlowForge/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// sessionRoutes wires the flow-runner API consumed by the form UI.
func sessionRoutes(app *fiber.App) {
	sessions := app.Group("/sessions")

	sessions.Post("/", controllers.StartSession)
	sessions.Get("/:id", controllers.GetSessionState)
	sessions.Post("/:id/answers", controllers.AnswerQuestion)
	sessions.Post("/:id/next", controllers.NextSection)
	sessions.Post("/:id/back", controllers.PreviousSection)
	sessions.Post("/:id/skip", controllers.SkipSection)
	sessions.Post("/:id/complete", controllers.CompleteSession)
	sessions.Post("/:id/reset", controllers.ResetSession)
	sessions.Delete("/:id", controllers.EndSession)
}
