package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/services"
	"Backend-FlowForge/src/utils"
)

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshIn struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with email/password and returns access plus refresh
// tokens.
func Login(c *fiber.Ctx) error {
	var in loginIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := services.AuthenticateUser(ctx, in.Email, in.Password)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	return c.JSON(result)
}

// Refresh rotates the token pair.
func Refresh(c *fiber.Ctx) error {
	var in refreshIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := services.RefreshAccessToken(ctx, in.UserID, in.RefreshToken)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}
	return c.JSON(result)
}

// Logout drops the caller's refresh token.
func Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	if userID == "" {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	if err := services.Logout(userID); err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Register creates an account.
func Register(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if user.Email == "" || user.Password == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := requestContext()
	defer cancel()

	created, err := services.CreateUser(ctx, &user)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
