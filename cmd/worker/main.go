package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/telemetry"
	"recruit-backend/internal/workerproc"
)

const (
	defaultPollWaitSeconds    = 20
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollWait := time.Duration(envInt("WORKER_POLL_WAIT_SECONDS", defaultPollWaitSeconds)) * time.Second
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	if app.Consumer == nil {
		log.Fatal("queue backend does not support consuming")
	}
	deps := app.WorkerDeps()

	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	log.Printf("worker started backend=%s concurrency=%d", cfg.QueueBackend, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		deliveries, err := app.Consumer.Receive(ctx, pollWait)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, delivery := range deliveries {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(d queue.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handleDelivery(ctx, deps, app.Consumer, d)
			}(delivery)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

// handleDelivery processes one delivery. Malformed messages are deleted so
// they do not poison the queue; processing failures leave the message for
// redelivery.
func handleDelivery(ctx context.Context, deps workerproc.Deps, consumer queue.Consumer, delivery queue.Delivery) {
	msg, meta, err := workerproc.ParseMessage(delivery.Body)
	if err != nil {
		fields := map[string]any{
			"body_len":    meta.BodyLen,
			"body_sha256": meta.BodySHA,
			"error":       err.Error(),
		}
		telemetry.Error("worker.message.unparseable", fields)
		deleteDelivery(ctx, consumer, delivery, "", "")
		return
	}

	fields := map[string]any{"task_id": msg.TaskID, "kind": msg.Kind}
	telemetry.Info("worker.message.received", fields)

	if err := workerproc.Dispatch(ctx, deps, msg); err != nil {
		var unknown workerproc.ErrUnknownKind
		if errors.As(err, &unknown) {
			telemetry.Error("worker.message.unknown_kind", map[string]any{
				"task_id": unknown.TaskID,
				"kind":    unknown.Kind,
			})
			deleteDelivery(ctx, consumer, delivery, msg.TaskID, msg.Kind)
			return
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.message.failed", fields)
		return
	}

	deleteDelivery(ctx, consumer, delivery, msg.TaskID, msg.Kind)
	telemetry.Info("worker.message.completed", fields)
}

func deleteDelivery(ctx context.Context, consumer queue.Consumer, delivery queue.Delivery, taskID, kind string) {
	if err := consumer.Delete(ctx, delivery.Handle); err != nil {
		telemetry.Error("worker.message.delete_failed", map[string]any{
			"task_id": taskID,
			"kind":    kind,
			"error":   err.Error(),
		})
	}
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
