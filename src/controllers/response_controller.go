package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/services/flows"
	"Backend-FlowForge/src/services/responses"
	"Backend-FlowForge/src/utils"
)

// GetResponsesByFlow lists all responses for a flow.
func GetResponsesByFlow(c *fiber.Ctx) error {
	flowID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}

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

	result, err := responses.GetResponsesByFlow(ctx, flowID, params)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(result)
}

// ExportResponses streams every response of a flow as CSV.
func ExportResponses(c *fiber.Ctx) error {
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

	data, err := responses.ExportCSV(ctx, flow)
	if err != nil {
		return utils.HandleAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+responses.ExportFilename(flow)+`"`)
	return c.Send(data)
}

// GetResponseByID returns one response.
func GetResponseByID(c *fiber.Ctx) error {
	responseID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid response ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	response, err := responses.GetResponseByID(ctx, responseID)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(response)
}

// UpdateResponse replaces the answer set of a response (admin edit).
func UpdateResponse(c *fiber.Ctx) error {
	responseID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid response ID")
	}

	var in struct {
		Answers models.AnswerSet `json:"answers"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	updated, err := responses.UpdateAnswers(ctx, responseID, in.Answers)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(updated)
}

// DeleteResponse removes a response.
func DeleteResponse(c *fiber.Ctx) error {
	responseID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid response ID")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := responses.DeleteResponse(ctx, responseID); err != nil {
		return utils.HandleAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Response deleted"})
}
