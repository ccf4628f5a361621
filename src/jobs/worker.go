package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/database"
	"Backend-FlowForge/src/services/flows"
	"Backend-FlowForge/src/services/responses"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandlePurgeStaleResponses deletes unfinished responses that have been idle
// past the payload cutoff.
func HandlePurgeStaleResponses(ctx context.Context, t *asynq.Task) error {
	var payload PurgeStalePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}
	if payload.MaxIdleHours <= 0 {
		payload.MaxIdleHours = 24 * 7
	}

	cutoff := time.Now().Add(-time.Duration(payload.MaxIdleHours) * time.Hour)
	deleted, err := responses.PurgeStale(ctx, cutoff)
	if err != nil {
		log.Println("❌ Failed to purge stale responses:", err)
		return err
	}

	log.Printf("✅ Purged %d stale responses older than %s", deleted, cutoff.Format(time.RFC3339))
	return nil
}

// HandleAutoArchiveFlow archives a published flow at its scheduled close.
// A flow that was already deleted or archived is not an error.
func HandleAutoArchiveFlow(ctx context.Context, t *asynq.Task) error {
	var payload FlowPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}

	flowID, err := primitive.ObjectIDFromHex(payload.FlowID)
	if err != nil {
		return err
	}

	if err := flows.ArchiveFlow(ctx, flowID); err != nil {
		if apperror.IsNotFound(err) || apperror.IsValidation(err) {
			log.Println("⚠️ Flow not archivable, skipping task:", payload.FlowID)
			return nil
		}
		log.Println("❌ Failed to archive flow:", err)
		return err
	}

	log.Println("✅ Flow auto-archived:", payload.FlowID)
	return nil
}

// StartWorker runs the asynq worker loop. It does nothing when Redis is not
// configured.
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not available. Background worker disabled.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePurgeStaleResponses, HandlePurgeStaleResponses)
	mux.HandleFunc(TypeAutoArchiveFlow, HandleAutoArchiveFlow)

	go runScheduler()

	if err := srv.Run(mux); err != nil {
		log.Fatal("❌ Failed to start asynq worker:", err)
	}
}

// runScheduler registers the recurring maintenance tasks.
func runScheduler() {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: database.RedisURI}, nil)

	task, err := NewPurgeStaleResponsesTask(7 * 24 * time.Hour)
	if err != nil {
		log.Println("❌ Failed to build purge task:", err)
		return
	}
	if _, err := scheduler.Register("@daily", task); err != nil {
		log.Println("❌ Failed to register purge schedule:", err)
		return
	}

	if err := scheduler.Run(); err != nil {
		log.Println("❌ Scheduler stopped:", err)
	}
}

// ScheduleAutoArchive enqueues the archive task for runAt. No-op without an
// asynq client.
func ScheduleAutoArchive(flowID string, runAt time.Time) error {
	if database.AsynqClient == nil {
		return nil
	}
	task, err := NewAutoArchiveFlowTask(flowID)
	if err != nil {
		return err
	}
	_, err = database.AsynqClient.Enqueue(task, asynq.ProcessAt(runAt), asynq.TaskID("archive:"+flowID))
	return err
}
