package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/reachradar/reachradar/internal/logger"
)

// sqsReceiver is the minimal subset of the SQS client used by Consumer.
type sqsReceiver interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Handler processes one relayed webhook: the job correlation id and the
// raw provider payload.
type Handler interface {
	HandleWebhook(ctx context.Context, jobID string, payload []byte) error
}

// Consumer long-polls the queue and drives the webhook result handler.
// Messages are acknowledged after handling regardless of handler outcome:
// the scrape-job ledger is the durable failure record, and redelivering a
// payload whose failure is persistent would only loop.
type Consumer struct {
	client      sqsReceiver
	handler     Handler
	queueURL    string
	maxInFlight int32
	waitSeconds int32
	logger      *logger.Logger
}

// NewConsumer creates an SQS-backed consumer.
// Parameters:
//   - ctx: context used to load AWS configuration.
//   - cfg: queue configuration including in-flight bound and poll wait.
//   - handler: webhook result handler.
//   - log: logger for consume diagnostics.
// Returns:
//   - *Consumer: initialized consumer.
//   - error: non-nil if AWS configuration cannot be loaded.
func NewConsumer(ctx context.Context, cfg *Config, handler Handler, log *logger.Logger) (*Consumer, error) {
	client, err := newSQSClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newConsumer(client, cfg, handler, log), nil
}

func newConsumer(client sqsReceiver, cfg *Config, handler Handler, log *logger.Logger) *Consumer {
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 || maxInFlight > 10 {
		// SQS caps a single receive at 10 messages.
		maxInFlight = 10
	}
	waitSeconds := cfg.WaitSeconds
	if waitSeconds <= 0 {
		waitSeconds = 20
	}
	return &Consumer{
		client:      client,
		handler:     handler,
		queueURL:    cfg.QueueURL,
		maxInFlight: int32(maxInFlight),
		waitSeconds: int32(waitSeconds),
		logger:      log,
	}
}

// Run polls the queue until the context is cancelled.
// Parameters:
//   - ctx: context whose cancellation stops the loop.
// Returns:
//   - error: ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.WithField("queue_url", c.queueURL).Info("Queue consumer starting")

	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("Queue consumer stopping")
			return err
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: c.maxInFlight,
			WaitTimeSeconds:     c.waitSeconds,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.logger.WithError(err).Error("Failed to receive messages")
			// Back off briefly so a broken queue does not spin the loop.
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, msg := range out.Messages {
			c.handleMessage(ctx, aws.ToString(msg.Body))

			// Ack even when handling failed: the job ledger already
			// recorded the failure, and a poison payload must not loop.
			if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(c.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				c.logger.WithError(err).Error("Failed to delete message")
			}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, body string) {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		c.logger.WithError(err).Error("Dropping malformed queue message")
		return
	}
	if env.Params.JobID == "" {
		c.logger.Error("Dropping queue message without job id")
		return
	}

	ctx = logger.SetJobID(ctx, env.Params.JobID)
	start := time.Now()
	if err := c.handler.HandleWebhook(ctx, env.Params.JobID, env.Body); err != nil {
		logger.CtxError(ctx, "Webhook handler failed: error=%v", err)
		return
	}
	logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
		Debug(ctx, "Queue message handled")
}
