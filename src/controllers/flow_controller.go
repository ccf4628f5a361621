package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Backend-FlowForge/src/jobs"
	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/services/flows"
	"Backend-FlowForge/src/utils"
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// CreateFlow accepts a flow definition and stores it as a draft.
func CreateFlow(c *fiber.Ctx) error {
	var flow models.Flow
	if err := c.BodyParser(&flow); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	created, err := flows.CreateFlow(ctx, &flow)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetFlows lists flows with pagination.
func GetFlows(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query: "+err.Error())
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := flows.GetFlows(ctx, params)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(result)
}

// GetFlowByID returns one flow with all sections and questions.
func GetFlowByID(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	flow, err := flows.GetFlowByID(ctx, flowID)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(flow)
}

// GetFlowsByType lists flows filtered by onboarding/questionnaire.
func GetFlowsByType(c *fiber.Ctx) error {
	flowType := models.FlowType(c.Params("type"))
	if flowType != models.FlowOnboarding && flowType != models.FlowQuestionnaire {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow type")
	}

	ctx, cancel := requestContext()
	defer cancel()

	list, err := flows.GetFlowsByType(ctx, flowType)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(list)
}

// GetDefaultFlow returns the default published flow of a type.
func GetDefaultFlow(c *fiber.Ctx) error {
	flowType := models.FlowType(c.Params("type"))

	ctx, cancel := requestContext()
	defer cancel()

	flow, err := flows.GetDefaultFlow(ctx, flowType)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(flow)
}

// UpdateFlow replaces a flow's content and bumps its version.
func UpdateFlow(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	var flow models.Flow
	if err := c.BodyParser(&flow); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	updated, err := flows.UpdateFlow(ctx, flowID, &flow)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(updated)
}

// DeleteFlow removes a flow.
func DeleteFlow(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := flows.DeleteFlow(ctx, flowID); err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Flow deleted"})
}

// SetDefaultFlow marks one flow as the default for its type.
func SetDefaultFlow(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := flows.SetDefaultFlow(ctx, flowID); err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default flow updated"})
}

// PublishFlow moves a draft flow to published. An optional archiveAt in the
// body schedules automatic archiving at that time.
func PublishFlow(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	var in struct {
		ArchiveAt *time.Time `json:"archiveAt"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := flows.PublishFlow(ctx, flowID); err != nil {
		return utils.HandleAppError(c, err)
	}

	if in.ArchiveAt != nil {
		if err := jobs.ScheduleAutoArchive(flowID.Hex(), *in.ArchiveAt); err != nil {
			log.Println("⚠️ Failed to schedule auto-archive:", err)
		}
	}
	return c.JSON(fiber.Map{"message": "Flow published"})
}

// ArchiveFlow moves a published flow to archived.
func ArchiveFlow(c *fiber.Ctx) error {
	return changeStatus(c, flows.ArchiveFlow, "Flow archived")
}

func changeStatus(c *fiber.Ctx, fn func(context.Context, primitive.ObjectID) error, message string) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := fn(ctx, flowID); err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
