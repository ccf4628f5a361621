package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/services/flows"
	"Backend-FlowForge/src/services/responses"
	"Backend-FlowForge/src/services/sessions"
	"Backend-FlowForge/src/utils"
)

// sessionManager owns every live session in this process. Autosave runs on
// the session's own lifetime, not on any single request.
var sessionManager = sessions.NewManager(responses.NewStore())

type startSessionIn struct {
	FlowID string `json:"flowId"`
	UserID string `json:"userId"`
	Resume bool   `json:"resume"`
}

type answerIn struct {
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
}

// StartSession begins (or resumes) a pass through a published flow.
func StartSession(c *fiber.Ctx) error {
	var in startSessionIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	flowID, err := primitive.ObjectIDFromHex(in.FlowID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid flow ID")
	}
	if in.UserID == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "userId is required")
	}

	ctx, cancel := requestContext()
	defer cancel()

	flow, err := flows.GetFlowByID(ctx, flowID)
	if err != nil {
		return utils.HandleAppError(c, err)
	}
	if flow.Status != models.StatusPublished {
		return utils.HandleError(c, fiber.StatusBadRequest, "Flow is not published")
	}

	var response *models.Response
	if in.Resume && flow.Settings.AllowSaveProgress {
		response, err = responses.FindInProgress(ctx, flowID, in.UserID)
		if err != nil && !apperror.IsNotFound(err) {
			return utils.HandleAppError(c, err)
		}
	}
	if response == nil {
		response, err = responses.StartResponse(ctx, flowID, in.UserID)
		if err != nil {
			return utils.HandleAppError(c, err)
		}
	}

	// The session outlives this request; autosave runs until End.
	sessionID, session, err := sessionManager.Start(context.Background(), flow, response.ID.Hex(), in.Resume)
	if err != nil {
		return utils.HandleAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId":  sessionID,
		"responseId": response.ID.Hex(),
		"state":      session.State(),
	})
}

// GetSessionState returns the {sectionIndex, progress, answers, saveStatus}
// tuple for the UI.
func GetSessionState(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return c.JSON(session.State())
}

// AnswerQuestion records an answer in a live session.
func AnswerQuestion(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}

	var in answerIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	result := session.Answer(in.QuestionID, in.Value)
	return sendTransition(c, session, result)
}

// NextSection advances the session when the current section is complete.
func NextSection(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return sendTransition(c, session, session.Next(c.Context()))
}

// PreviousSection steps back one section.
func PreviousSection(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return sendTransition(c, session, session.Back())
}

// SkipSection skips an optional section.
func SkipSection(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}

	var in struct {
		SectionID string `json:"sectionId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	return sendTransition(c, session, session.SkipSection(c.Context(), in.SectionID))
}

// CompleteSession finalizes the session with an immediate snapshot flush.
func CompleteSession(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return sendTransition(c, session, session.Complete(c.Context()))
}

// ResetSession starts the pass over with empty answers and progress.
func ResetSession(c *fiber.Ctx) error {
	session, ok := sessionManager.Get(c.Params("id"))
	if !ok {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return sendTransition(c, session, session.Reset())
}

// EndSession tears the session down, stopping its autosave timer.
func EndSession(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	if !sessionManager.End(ctx, c.Params("id")) {
		return utils.HandleError(c, fiber.StatusNotFound, "Session not found")
	}
	return c.JSON(fiber.Map{"message": "Session ended"})
}

func sendTransition(c *fiber.Ctx, session *sessions.Session, result sessions.TransitionResult) error {
	status := fiber.StatusOK
	if result.Status == sessions.TransitionRejected {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{
		"result": result,
		"state":  session.State(),
	})
}
