package routes

import (
	"Backend-FlowForge/src/controllers"
	"Backend-FlowForge/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// authRoutes wires login, registration and token lifecycle.
func authRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/login", controllers.Login)
	auth.Post("/register", controllers.Register)
	auth.Post("/refresh", controllers.Refresh)
	auth.Post("/logout", middleware.AuthJWT, controllers.Logout)
}
