package worker

import (
	"context"

	"dojo.app/platform/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// TaskHandler runs one task type. Returning an error requeues the message.
type TaskHandler func(ctx context.Context, msg queue.Message) error

// MessageProcessor processes a queue message end to end, including ack and retry.
type MessageProcessor func(ctx context.Context, msg queue.Message)
