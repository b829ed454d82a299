package worker

// retry_cron.go
// Background goroutine that periodically replays dead-lettered notification
// jobs. Entries are re-enqueued with their attempt count preserved, so a job
// that keeps failing bounces between queue and DLQ at most maxReintentosDLQ
// times before it is parked for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10

	// maxReintentosDLQ caps total attempts across replays; beyond it the
	// entry stays parked in the DLQ.
	maxReintentosDLQ = 9
)

// StartRetryCron launches a background goroutine that ticks every few
// minutes and replays a small batch of DLQ entries. It respects the context
// for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				replayDLQ(ctx, rdb, QueueNotificaciones)
			}
		}
	}()
}

func replayDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis down; either way this tick is done
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq", dlqKey).Msg("retry_cron: entrada ilegible, descartada")
			continue
		}
		if entry.Attempts >= maxReintentosDLQ {
			// park it back at the head so it is not retried again
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			log.Warn().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
				Msg("retry_cron: entrada agotada, queda aparcada en la DLQ")
			return
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: no se pudo reencolar")
			return
		}
		log.Info().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
			Msg("retry_cron: trabajo reencolado desde la DLQ")
	}
}
