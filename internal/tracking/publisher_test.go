package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/metrics"
)

type fakeSQS struct {
	mu     sync.Mutex
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_SendsEngagementMessage(t *testing.T) {
	client := &fakeSQS{}
	pub := NewPublisher(client, "https://sqs.us-west-2.amazonaws.com/123/tracking")

	link := "lnk1"
	ts := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	pub.Publish(context.Background(), domain.TrackingEvent{
		ID: 7, EmailID: "e1", LinkID: &link, EventType: domain.EventClick,
		IPAddress: "203.0.113.1", UserAgent: "ua", Location: "Oslo, Norway", Timestamp: ts,
	})
	pub.Wait()

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "https://sqs.us-west-2.amazonaws.com/123/tracking", *in.QueueUrl)

	var msg EngagementMessage
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &msg))
	assert.Equal(t, EngagementMessage{
		EventID: 7, EventType: "click", EmailID: "e1", LinkID: "lnk1",
		IPAddress: "203.0.113.1", UserAgent: "ua", Location: "Oslo, Norway", Timestamp: ts,
	}, msg)
}

func TestPublisher_FailureIsCounted(t *testing.T) {
	client := &fakeSQS{err: errors.New("throttled")}
	pub := NewPublisher(client, "q")

	before := testutil.ToFloat64(metrics.PublishFailuresTotal)
	pub.Publish(context.Background(), domain.TrackingEvent{ID: 1, EmailID: "e1", EventType: domain.EventOpen})
	pub.Wait()

	assert.Len(t, client.inputs, 1, "failed sends are not retried")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PublishFailuresTotal))
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var pub *Publisher
	pub.Publish(context.Background(), domain.TrackingEvent{})
	pub.Wait()
}

func TestNewPublisherFromConfig_Disabled(t *testing.T) {
	pub, err := NewPublisherFromConfig(context.Background(), config.PublisherConfig{})
	require.NoError(t, err)
	assert.Nil(t, pub)
}
