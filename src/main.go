package main

import (
	_ "Backend-FlowForge/docs"
	"Backend-FlowForge/src/database"
	"Backend-FlowForge/src/jobs"
	"Backend-FlowForge/src/routes"
	"Backend-FlowForge/src/seeder"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

func main() {

	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	// Redis and the job queue are optional in development.
	database.InitRedis()
	database.InitAsynq()
	go jobs.StartWorker()

	if os.Getenv("SEED_DEFAULT_FLOWS") == "true" {
		if err := seeder.SeedDefaultFlows(); err != nil {
			log.Printf("⚠️ seeding default flows failed: %v", err)
		}
	}

	app := fiber.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app)

	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888"
	}

	log.Println("Server is running on port " + appURI)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI)))
	if err != nil {
		log.Fatal(err)
	}

}
