package responses

import (
	"context"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/services/sessions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store adapts the responses collection to the sessions.SnapshotStore
// interface: progress snapshots are persisted inside the response record.
type Store struct{}

var _ sessions.SnapshotStore = Store{}

// NewStore returns the Mongo-backed snapshot store.
func NewStore() Store {
	return Store{}
}

// SaveProgress writes a snapshot into the owning response. A completed
// snapshot also stamps completedAt.
func (Store) SaveProgress(ctx context.Context, snap *sessions.ProgressSnapshot) error {
	responseID, err := primitive.ObjectIDFromHex(snap.ResponseID)
	if err != nil {
		return apperror.NewValidationError("invalid response id", err)
	}

	now := time.Now()
	set := bson.M{
		"answers":     snap.Answers,
		"progress":    snap.Progress,
		"lastUpdated": now,
	}
	if snap.Completed {
		completedAt := now
		if snap.Progress.CompletedAt != nil {
			completedAt = *snap.Progress.CompletedAt
		}
		set["completedAt"] = completedAt
	}

	res, err := responseCollection.UpdateOne(ctx, bson.M{"_id": responseID}, bson.M{"$set": set})
	if err != nil {
		return apperror.NewDatabaseError("failed to save progress snapshot", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewNotFoundError("response not found", nil)
	}
	return nil
}

// LoadProgress reads the snapshot back out of the response record.
func (Store) LoadProgress(ctx context.Context, responseID string) (*sessions.ProgressSnapshot, error) {
	oid, err := primitive.ObjectIDFromHex(responseID)
	if err != nil {
		return nil, apperror.NewValidationError("invalid response id", err)
	}

	response, err := GetResponseByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	snap := &sessions.ProgressSnapshot{
		ResponseID: responseID,
		Answers:    response.Answers,
		Completed:  response.CompletedAt != nil,
	}
	if response.Progress != nil {
		snap.Progress = *response.Progress
	}
	return snap, nil
}
