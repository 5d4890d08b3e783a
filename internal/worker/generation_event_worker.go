package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"learningpal/internal/model"
	"learningpal/internal/platform/logger"
	"learningpal/internal/platform/rabbitmq"
)

// EventStore persists generation events.
type EventStore interface {
	Create(ctx context.Context, event *model.GenerationEvent) error
}

// GenerationEventWorker consumes generation events from RabbitMQ and writes
// them to the database. Undecodable or unpersistable messages are dropped.
type GenerationEventWorker struct {
	conn      *amqp.Connection
	store     EventStore
	queueName string
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGenerationEventWorker(conn *amqp.Connection, store EventStore, queueName string, log *logger.Logger) *GenerationEventWorker {
	return &GenerationEventWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log.Named("generation_event_worker"),
	}
}

func (w *GenerationEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker qos failed: %w", err)
	}
	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.log.Warn("drop generation event", "error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.log.Info("worker started", "queue", w.queueName)
	return nil
}

func (w *GenerationEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.GenerationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode generation event failed: %w", err)
	}
	event.ID = 0
	return w.store.Create(ctx, &event)
}

func (w *GenerationEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
