package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/reachradar/reachradar/internal/logger"
)

// sqsSender is the minimal subset of the SQS client used by Publisher.
type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Config holds queue connection settings shared by publisher and consumer.
type Config struct {
	Region      string
	QueueURL    string
	Endpoint    string // optional custom endpoint (LocalStack, ElasticMQ)
	AccessKey   string
	SecretKey   string
	MaxInFlight int
	WaitSeconds int
}

// Publisher sends relayed webhook envelopes onto the durable queue. The
// relay returns success to the provider as soon as the publish is
// acknowledged, decoupling the provider's callback from reconciliation.
type Publisher struct {
	client   sqsSender
	queueURL string
	logger   *logger.Logger
}

// NewPublisher creates an SQS-backed publisher.
// Parameters:
//   - ctx: context used to load AWS configuration.
//   - cfg: queue configuration.
//   - log: logger for publish diagnostics.
// Returns:
//   - *Publisher: initialized publisher.
//   - error: non-nil if AWS configuration cannot be loaded.
func NewPublisher(ctx context.Context, cfg *Config, log *logger.Logger) (*Publisher, error) {
	client, err := newSQSClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		client:   client,
		queueURL: cfg.QueueURL,
		logger:   log,
	}, nil
}

// Publish sends one envelope to the queue.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - env: envelope to send.
// Returns:
//   - error: non-nil if marshaling or the send fails.
func (p *Publisher) Publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"job_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(env.Params.JobID),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		p.logger.WithError(err).WithField(logger.FieldJobID, env.Params.JobID).
			Error("Failed to publish webhook envelope")
		return fmt.Errorf("send message to sqs: %w", err)
	}

	p.logger.WithField(logger.FieldJobID, env.Params.JobID).Debug("Webhook envelope published")
	return nil
}

// newSQSClient builds an SQS client honoring optional static credentials
// and a custom endpoint.
func newSQSClient(ctx context.Context, cfg *Config) (*sqs.Client, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
