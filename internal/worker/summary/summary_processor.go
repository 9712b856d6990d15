package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"worktime.service/internal/core"
	"worktime.service/internal/core/model"
	"worktime.service/internal/ports/messaging"
	"worktime.service/internal/ports/repository"
)

// SummaryProcessor handles checkout events from the summary queue by sending
// the session-summary email. SES sits behind a circuit breaker so a mail
// outage does not get hammered by the whole queue at once.
type SummaryProcessor struct {
	emailService core.EmailService
	repo         repository.Repository
	emailDomain  string
	cb           *gobreaker.CircuitBreaker
}

// NewProcessor sets up a new processor for checkout-summary jobs. It needs an
// email service to send emails and a repository to track the job status.
func NewProcessor(emailService core.EmailService, repo repository.Repository, emailDomain string) *SummaryProcessor {
	settings := gobreaker.Settings{
		Name:        "SES",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate exceeds 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &SummaryProcessor{
		emailService: emailService,
		repo:         repo,
		emailDomain:  emailDomain,
		cb:           gobreaker.NewCircuitBreaker(settings),
	}
}

// Process is the main entry point for handling a message from the summary queue.
// It tries to send the email and tells the worker to retry with backoff when
// something goes wrong.
func (p *SummaryProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.CheckOutEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal checkout event")
		return false, 0, err // Do not retry on malformed message
	}

	record, err := p.repo.GetEntry(ctx, event.EntryID)
	if err != nil {
		// If we can't get the record, retry after a short delay.
		return true, 10, fmt.Errorf("failed to get entry from db for summary processing: %w", err)
	}

	if record.EmailStatus == model.StatusEmailCompleted {
		log.Ctx(ctx).Info().Int64("entry_id", event.EntryID).Msg("Summary email already sent. Skipping.")
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.emailService.SendCheckOutSummary(ctx, event.UserID+"@"+p.emailDomain, event.WorkingHours)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is OPEN; skipping SES call")
		}
		newCount := record.EmailRetryCount + 1
		p.repo.UpdateEmailStatus(ctx, event.EntryID, model.StatusEmailPending, newCount)

		delay := calculateBackoff(newCount)
		return true, delay, err
	}

	err = p.repo.UpdateEmailStatus(ctx, event.EntryID, model.StatusEmailCompleted, 0)
	return false, 0, err
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
