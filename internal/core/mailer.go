package core

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"worktime.service/internal/core/timecalc"
	"worktime.service/pkg/telemetry"
)

type EmailService interface {
	SendCheckOutSummary(ctx context.Context, to string, hours float64) error
}

type SESEmailService struct {
	client *ses.Client
	sender string
}

func NewSESEmailService(client *ses.Client, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) SendCheckOutSummary(ctx context.Context, to string, hours float64) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	// Enrich span with the owner if available in context
	if userID := telemetry.GetUserIDFromContext(ctx); userID != "" {
		span.SetAttributes(attribute.String("app.user_id", userID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Work Session Summary"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(fmt.Sprintf("Hello,\n\nYou have checked out. Time worked this session: %s.", timecalc.Format(&hours, false))),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
