package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKafkaConfigBoundsSendTime(t *testing.T) {
	cfg := NewKafkaConfig("estatehub-test")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Return.Successes)

	attempt := cfg.Net.DialTimeout + cfg.Net.WriteTimeout + cfg.Net.ReadTimeout + cfg.Producer.Timeout
	worst := time.Duration(cfg.Producer.Retry.Max+1)*attempt + time.Duration(cfg.Producer.Retry.Max)*cfg.Producer.Retry.Backoff
	assert.LessOrEqual(t, worst, 10*time.Second)
}

func TestKafkaPublisherSendsEnvelope(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Topic != TopicEnquiryCreated || env.Key != "listing-1" {
			return errors.New("unexpected envelope header")
		}
		var ev EnquiryCreated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return err
		}
		if ev.Message != "is it available?" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "estatehub.")
	err := pub.Publish(context.Background(), TopicEnquiryCreated, "listing-1", EnquiryCreated{
		EnquiryID: 1, ListingID: "listing-1", Message: "is it available?",
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "")
	err := pub.Publish(context.Background(), TopicPaymentFailed, "order_1", PaymentFailed{OrderID: "order_1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, TopicListingDeleted, "x", ListingDeleted{}), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "")
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pkglogger.SetOutput(&buf)
	defer pkglogger.SetOutput(os.Stderr)

	err := NewLogPublisher().Publish(context.Background(), TopicListingPublished, "l-1",
		ListingPublished{ListingID: "l-1", Via: "approval"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"topic":"listing.published"`)
	assert.Contains(t, buf.String(), `"via":"approval"`)
}
