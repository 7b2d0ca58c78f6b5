// Package worker implements the fire-and-forget write path to the remote
// ledger. Jobs are pushed onto Redis lists and consumed by a small BRPOP
// pool. Delivery is deliberately at-most-once: a failed remote call is
// logged and the job is dropped — there is no retry queue and no DLQ, and a
// sync failure never surfaces to the print action that enqueued it.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
)

const (
	QueueDailyTotalSync = "jobs:daily_total_sync"
	QueueProfileSync    = "jobs:profile_sync"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DailyTotalSyncPayload mirrors one day's post-print aggregate.
type DailyTotalSyncPayload struct {
	Branch            string                   `json:"branch"`
	Date              string                   `json:"date"`
	TotalRevenue      int64                    `json:"totalRevenue"` // minor units
	ProductQuantities []remote.ProductQuantity `json:"productQuantities"`
}

// ProfileSyncPayload mirrors the branch print defaults to the remote profile.
type ProfileSyncPayload struct {
	Branch            string `json:"branch"`
	Name              string `json:"name"`
	BillPrintLocation string `json:"billPrintLocation"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueDailyTotalSync pushes a daily-total sync job. Best-effort: an
// enqueue failure is logged and swallowed so the local print flow that
// already committed is never rolled back or blocked.
func (d *Dispatcher) EnqueueDailyTotalSync(ctx context.Context, payload DailyTotalSyncPayload) {
	if err := d.enqueue(ctx, QueueDailyTotalSync, "daily_total_sync", payload); err != nil {
		log.Error().Err(err).Str("branch", payload.Branch).Str("date", payload.Date).
			Msg("failed to enqueue daily total sync")
	}
}

// EnqueueProfileSync pushes a profile sync job, same best-effort contract.
func (d *Dispatcher) EnqueueProfileSync(ctx context.Context, payload ProfileSyncPayload) {
	if err := d.enqueue(ctx, QueueProfileSync, "profile_sync", payload); err != nil {
		log.Error().Err(err).Str("branch", payload.Branch).Msg("failed to enqueue profile sync")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the dependencies the pool needs to execute jobs.
type Handlers struct {
	Remote        remote.Ledger
	RemoteTimeout time.Duration
}

// StartPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, h *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, h, i)
	}
	log.Info().Msgf("sync worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, h *Handlers, id int) {
	queues := []string{QueueDailyTotalSync, QueueProfileSync}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, h *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, h.RemoteTimeout)
	defer cancel()

	switch job.Type {
	case "daily_total_sync":
		var p DailyTotalSyncPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			log.Error().Err(err).Msg("malformed daily total sync payload")
			return
		}
		if err := h.Remote.SaveDailyTotal(callCtx, p.Branch, p.Date, p.TotalRevenue, p.ProductQuantities); err != nil {
			// At-most-once: log and drop.
			log.Error().Err(err).Str("branch", p.Branch).Str("date", p.Date).
				Msg("remote daily total save failed, dropping job")
		}
	case "profile_sync":
		var p ProfileSyncPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			log.Error().Err(err).Msg("malformed profile sync payload")
			return
		}
		err := h.Remote.SaveUserProfile(callCtx, remote.UserProfile{
			Branch:            p.Branch,
			Name:              p.Name,
			BillPrintLocation: p.BillPrintLocation,
		})
		if err != nil {
			log.Error().Err(err).Str("branch", p.Branch).Msg("remote profile save failed, dropping job")
		}
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
