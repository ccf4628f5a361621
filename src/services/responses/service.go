package responses

import (
	"context"
	"log"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/database"
	"Backend-FlowForge/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var responseCollection *mongo.Collection

func init() {
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	responseCollection = database.GetCollection("FlowForgeDB", "responses")
	if responseCollection == nil {
		log.Fatal("Failed to get the responses collection")
	}
}

// StartResponse creates an empty in-progress response for one user and flow.
func StartResponse(ctx context.Context, flowID primitive.ObjectID, userID string) (*models.Response, error) {
	now := time.Now()
	response := &models.Response{
		ID:          primitive.NewObjectID(),
		FlowID:      flowID,
		UserID:      userID,
		Answers:     make(models.AnswerSet),
		StartedAt:   now,
		LastUpdated: now,
	}

	if _, err := responseCollection.InsertOne(ctx, response); err != nil {
		return nil, apperror.NewDatabaseError("failed to insert response", err)
	}
	return response, nil
}

// FindInProgress returns the most recent unfinished response of a user for a
// flow, used to resume a saved pass.
func FindInProgress(ctx context.Context, flowID primitive.ObjectID, userID string) (*models.Response, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})
	var response models.Response
	err := responseCollection.FindOne(ctx, bson.M{
		"flowId":      flowID,
		"userId":      userID,
		"completedAt": bson.M{"$exists": false},
	}, opts).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("no in-progress response", err)
		}
		return nil, apperror.NewDatabaseError("failed to load response", err)
	}
	return &response, nil
}

// GetResponseByID retrieves one response.
func GetResponseByID(ctx context.Context, responseID primitive.ObjectID) (*models.Response, error) {
	var response models.Response
	err := responseCollection.FindOne(ctx, bson.M{"_id": responseID}).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("response not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to load response", err)
	}
	return &response, nil
}

// GetResponsesByFlow retrieves all responses for a flow with pagination,
// newest first.
func GetResponsesByFlow(ctx context.Context, flowID primitive.ObjectID, params models.PaginationParams) (*models.PaginatedResponse, error) {
	filter := bson.M{"flowId": flowID}

	total, err := responseCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to count responses", err)
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "lastUpdated", Value: -1}})

	cursor, err := responseCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list responses", err)
	}
	defer cursor.Close(ctx)

	var list []models.Response
	if err = cursor.All(ctx, &list); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode responses", err)
	}

	return models.NewPaginatedResponse(list, total, params), nil
}

// UpdateAnswers replaces the answers of a response, for admin edits of a
// submitted response.
func UpdateAnswers(ctx context.Context, responseID primitive.ObjectID, answers models.AnswerSet) (*models.Response, error) {
	update := bson.M{"$set": bson.M{
		"answers":     answers,
		"lastUpdated": time.Now(),
	}}
	res, err := responseCollection.UpdateOne(ctx, bson.M{"_id": responseID}, update)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update response", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperror.NewNotFoundError("response not found", nil)
	}
	return GetResponseByID(ctx, responseID)
}

// DeleteResponse removes a response.
func DeleteResponse(ctx context.Context, responseID primitive.ObjectID) error {
	res, err := responseCollection.DeleteOne(ctx, bson.M{"_id": responseID})
	if err != nil {
		return apperror.NewDatabaseError("failed to delete response", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFoundError("response not found", nil)
	}
	return nil
}

// PurgeStale deletes unfinished responses that have not been touched since
// cutoff. Returns how many were removed.
func PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := responseCollection.DeleteMany(ctx, bson.M{
		"completedAt": bson.M{"$exists": false},
		"lastUpdated": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to purge stale responses", err)
	}
	return res.DeletedCount, nil
}
