package worker

import (
	"context"

	"eventhub/core/config"
	"eventhub/core/logger"
	"eventhub/modules/event/service"

	"github.com/hibiken/asynq"
)

// TypeRecomputeStatuses is the task that sweeps the whole collection and
// flips stale upcoming events to completed. It carries no payload.
const TypeRecomputeStatuses = "event:recompute_statuses"

func NewRecomputeStatusesTask() *asynq.Task {
	return asynq.NewTask(TypeRecomputeStatuses, nil, asynq.MaxRetry(3))
}

// Enqueuer hands tasks to the queue. The controller enqueues a sweep on
// demand; there is no timer.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(cfg config.RedisConfig) *Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueRecomputeStatuses(ctx context.Context) error {
	info, err := e.client.EnqueueContext(ctx, NewRecomputeStatusesTask())
	if err != nil {
		logger.Error("Enqueuer:EnqueueRecomputeStatuses:Error:", err)
		return err
	}
	logger.Info("Enqueuer:EnqueueRecomputeStatuses:Queued", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// Handler processes event tasks.
type Handler struct {
	svc *service.EventService
}

func NewHandler(svc *service.EventService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) HandleRecomputeStatuses(ctx context.Context, t *asynq.Task) error {
	changed, err := h.svc.RecomputeAllStatuses(ctx)
	if err != nil {
		logger.Error("Handler:HandleRecomputeStatuses:Error:", err)
		return err
	}
	logger.Info("Handler:HandleRecomputeStatuses:Done", "changed", changed)
	return nil
}

// RunServer blocks serving the task queue; callers run it in a goroutine.
func RunServer(cfg config.RedisConfig, concurrency int, handler *Handler) error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB},
		asynq.Config{Concurrency: concurrency},
	)
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRecomputeStatuses, handler.HandleRecomputeStatuses)
	return srv.Run(mux)
}
