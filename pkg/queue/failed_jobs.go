package queue

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petpalace/petpalace/pkg/logger"
)

// FailedJob is a job that exhausted its retries, persisted so operators can
// inspect and replay it.
type FailedJob struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobType  string             `bson:"job_type" json:"job_type"`
	Payload  string             `bson:"payload" json:"payload"`
	Error    string             `bson:"error" json:"error"`
	Attempts int                `bson:"attempts" json:"attempts"`
	FailedAt time.Time          `bson:"failed_at" json:"failed_at"`
}

var failedCol *mongo.Collection

// UseCollection persists exhausted jobs to the given Mongo collection. Call
// once at boot; without it failures are only logged.
func UseCollection(col *mongo.Collection) { failedCol = col }

func recordFailure(job Job, name string, lastErr error, attempts int) {
	if failedCol == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(`{}`)
	}

	errMsg := ""
	if lastErr != nil {
		errMsg = lastErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = failedCol.InsertOne(ctx, FailedJob{
		JobType:  name,
		Payload:  string(payload),
		Error:    errMsg,
		Attempts: attempts,
		FailedAt: time.Now(),
	})
	if err != nil {
		logger.Error("queue: persist failed job", "type", name, "error", err)
	}
}

// Failed returns the most recent failed jobs, newest first.
func Failed(ctx context.Context, limit int64) ([]FailedJob, error) {
	if failedCol == nil {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "failed_at", Value: -1}}).SetLimit(limit)
	cur, err := failedCol.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var jobs []FailedJob
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
