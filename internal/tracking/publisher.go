package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/goccy/go-json"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/metrics"
	"github.com/ignite/email-tracker/internal/pkg/logger"
)

const sendTimeout = 5 * time.Second

// EngagementMessage is the SQS body published for each recorded event.
type EngagementMessage struct {
	EventID   int64     `json:"event_id"`
	EventType string    `json:"event_type"`
	EmailID   string    `json:"email_id"`
	LinkID    string    `json:"link_id,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher sends recorded events to SQS without blocking the request.
// A failed send is logged and counted, never retried.
type Publisher struct {
	client   sqsAPI
	queueURL string
	inflight sync.WaitGroup
}

func NewPublisher(client sqsAPI, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL}
}

// NewPublisherFromConfig builds an SQS publisher from the default AWS
// credential chain. It returns nil when no queue is configured.
func NewPublisherFromConfig(ctx context.Context, cfg config.PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return NewPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), nil
}

// Publish queues evt for sending. A nil Publisher discards events.
func (p *Publisher) Publish(_ context.Context, evt domain.TrackingEvent) {
	if p == nil {
		return
	}
	msg := EngagementMessage{
		EventID:   evt.ID,
		EventType: string(evt.EventType),
		EmailID:   evt.EmailID,
		IPAddress: evt.IPAddress,
		UserAgent: evt.UserAgent,
		Location:  evt.Location,
		Timestamp: evt.Timestamp,
	}
	if evt.LinkID != nil {
		msg.LinkID = *evt.LinkID
	}
	body, err := json.Marshal(msg)
	if err != nil {
		metrics.PublishFailuresTotal.Inc()
		logger.Error("marshal engagement message", "error", err)
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(p.queueURL),
			MessageBody: aws.String(string(body)),
		})
		if err != nil {
			metrics.PublishFailuresTotal.Inc()
			logger.Warn("publish engagement event", "event_id", msg.EventID, "error", err)
		}
	}()
}

// Wait blocks until every in-flight send has finished.
func (p *Publisher) Wait() {
	if p == nil {
		return
	}
	p.inflight.Wait()
}
