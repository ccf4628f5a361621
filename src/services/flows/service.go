package flows

import (
	"context"
	"log"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/database"
	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	flowCollection *mongo.Collection
	validate       = validator.New()
)

func init() {
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	flowCollection = database.GetCollection("FlowForgeDB", "flows")
	if flowCollection == nil {
		log.Fatal("Failed to get the flows collection")
	}
}

// CreateFlow validates and stores a new flow as a draft.
func CreateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	if err := ValidateFlowStructure(flow); err != nil {
		return nil, err
	}

	now := time.Now()
	flow.ID = primitive.NewObjectID()
	flow.Status = models.StatusDraft
	flow.IsDefault = false
	if flow.Version == 0 {
		flow.Version = 1
	}
	flow.CreatedAt = now
	flow.UpdatedAt = now

	if _, err := flowCollection.InsertOne(ctx, flow); err != nil {
		return nil, apperror.NewDatabaseError("failed to insert flow", err)
	}
	return flow, nil
}

// GetFlows retrieves flows with pagination, optionally filtered by a title
// search.
func GetFlows(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["title"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := flowCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to count flows", err)
	}

	sortOrder := 1
	if params.Order == "desc" {
		sortOrder = -1
	}
	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: params.SortBy, Value: sortOrder}})

	cursor, err := flowCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list flows", err)
	}
	defer cursor.Close(ctx)

	var flows []models.Flow
	if err = cursor.All(ctx, &flows); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode flows", err)
	}

	return models.NewPaginatedResponse(flows, total, params), nil
}

// GetFlowByID retrieves one flow. Published flows are served from the redis
// cache when available; the stored document is structurally validated on the
// way out so a corrupted record cannot reach the runner.
func GetFlowByID(ctx context.Context, flowID primitive.ObjectID) (*models.Flow, error) {
	if cached, ok := utils.GetCachedFlow(flowID.Hex()); ok {
		return cached, nil
	}

	var flow models.Flow
	err := flowCollection.FindOne(ctx, bson.M{"_id": flowID}).Decode(&flow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("flow not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to load flow", err)
	}

	if err := ValidateFlowStructure(&flow); err != nil {
		return nil, err
	}

	if flow.Status == models.StatusPublished {
		utils.CacheFlow(&flow)
	}
	return &flow, nil
}

// GetFlowsByType lists flows of one type, newest first.
func GetFlowsByType(ctx context.Context, flowType models.FlowType) ([]models.Flow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := flowCollection.Find(ctx, bson.M{"type": flowType}, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list flows by type", err)
	}
	defer cursor.Close(ctx)

	var flows []models.Flow
	if err = cursor.All(ctx, &flows); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode flows", err)
	}
	return flows, nil
}

// GetDefaultFlow returns the default published flow of a type.
func GetDefaultFlow(ctx context.Context, flowType models.FlowType) (*models.Flow, error) {
	var flow models.Flow
	err := flowCollection.FindOne(ctx, bson.M{
		"type":      flowType,
		"isDefault": true,
		"status":    models.StatusPublished,
	}).Decode(&flow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("no default flow for type "+string(flowType), err)
		}
		return nil, apperror.NewDatabaseError("failed to load default flow", err)
	}
	return &flow, nil
}

// UpdateFlow replaces the authored content of a flow and bumps its version.
func UpdateFlow(ctx context.Context, flowID primitive.ObjectID, flow *models.Flow) (*models.Flow, error) {
	if err := ValidateFlowStructure(flow); err != nil {
		return nil, err
	}

	current, err := GetFlowByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":       flow.Title,
		"description": flow.Description,
		"sections":    flow.Sections,
		"settings":    flow.Settings,
		"version":     current.Version + 1,
		"updatedAt":   time.Now(),
	}}
	if _, err := flowCollection.UpdateOne(ctx, bson.M{"_id": flowID}, update); err != nil {
		return nil, apperror.NewDatabaseError("failed to update flow", err)
	}

	utils.InvalidateFlowCache(flowID.Hex())
	return GetFlowByID(ctx, flowID)
}

// DeleteFlow removes a flow.
func DeleteFlow(ctx context.Context, flowID primitive.ObjectID) error {
	res, err := flowCollection.DeleteOne(ctx, bson.M{"_id": flowID})
	if err != nil {
		return apperror.NewDatabaseError("failed to delete flow", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFoundError("flow not found", nil)
	}
	utils.InvalidateFlowCache(flowID.Hex())
	return nil
}

// SetDefaultFlow makes one flow the default for its type, clearing the
// previous default. At most one flow per type is default.
func SetDefaultFlow(ctx context.Context, flowID primitive.ObjectID) error {
	flow, err := GetFlowByID(ctx, flowID)
	if err != nil {
		return err
	}

	_, err = flowCollection.UpdateMany(ctx,
		bson.M{"type": flow.Type, "_id": bson.M{"$ne": flowID}},
		bson.M{"$set": bson.M{"isDefault": false}},
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to clear previous default", err)
	}

	_, err = flowCollection.UpdateOne(ctx,
		bson.M{"_id": flowID},
		bson.M{"$set": bson.M{"isDefault": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to set default flow", err)
	}
	utils.InvalidateFlowCache(flowID.Hex())
	return nil
}

// PublishFlow moves a draft to published.
func PublishFlow(ctx context.Context, flowID primitive.ObjectID) error {
	return setStatus(ctx, flowID, models.StatusDraft, models.StatusPublished)
}

// ArchiveFlow moves a published flow to archived.
func ArchiveFlow(ctx context.Context, flowID primitive.ObjectID) error {
	return setStatus(ctx, flowID, models.StatusPublished, models.StatusArchived)
}

func setStatus(ctx context.Context, flowID primitive.ObjectID, from, to models.FlowStatus) error {
	res, err := flowCollection.UpdateOne(ctx,
		bson.M{"_id": flowID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to change flow status", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewValidationError("flow is not in status "+string(from), nil)
	}
	utils.InvalidateFlowCache(flowID.Hex())
	return nil
}
