package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"dojo.app/platform/internal/model"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"task_type":       string(task.TaskType),
		"organization_id": task.OrganizationID,
		"school_id":       task.SchoolID,
		"user_id":         task.UserID,
		"email":           task.Email,
		"attempt":         attempt,
	}

	traceID := task.TraceID
	if traceID == nil {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			id := sc.TraceID().String()
			traceID = &id
		}
	}
	if traceID != nil && *traceID != "" {
		fields["trace_id"] = *traceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued task",
		"task_type", task.TaskType,
		"organization_id", task.OrganizationID,
		"attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// WelcomeProducer turns committed registrations into welcome tasks.
type WelcomeProducer struct {
	producer Producer
}

func NewWelcomeProducer(producer Producer) *WelcomeProducer {
	return &WelcomeProducer{producer: producer}
}

func (w *WelcomeProducer) OnRegistered(ctx context.Context, result *model.RegistrationResult) error {
	return w.producer.Enqueue(ctx, Task{
		TaskType:       TaskTypeWelcome,
		OrganizationID: result.Organization.ID,
		SchoolID:       result.School.ID,
		UserID:         result.User.ID,
		Email:          result.User.Email,
	})
}
