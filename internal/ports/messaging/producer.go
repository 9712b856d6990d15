package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SummaryProducer defines the output port for publishing checkout events.
type SummaryProducer interface {
	PublishCheckOut(ctx context.Context, event CheckOutEvent) error
}

// MessageSender defines the interface for sending raw messages to a messaging system.
type MessageSender interface {
	SendMessage(ctx context.Context, destination string, body []byte) error
}

// SQSClient defines the interface for the AWS SQS client.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Producer struct {
	sender          MessageSender
	summaryQueueURL string
}

func NewProducer(sender MessageSender, summaryQueueURL string) *Producer {
	return &Producer{
		sender:          sender,
		summaryQueueURL: summaryQueueURL,
	}
}

func NewSQSProducer(client SQSClient, summaryQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, summaryQueueURL)
}

func (p *Producer) PublishCheckOut(ctx context.Context, event CheckOutEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Enrich the current span with the owner if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && event.UserID != "" {
		span.SetAttributes(attribute.String("app.user_id", event.UserID))
	}

	if err := p.sender.SendMessage(ctx, p.summaryQueueURL, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
