package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var testNatsURL string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("Docker is not available, skipping NATS integration tests")
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "nats",
		Tag:        "2.10",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start NATS resource: %s", err)
	}
	url := fmt.Sprintf("nats://%s", resource.GetHostPort("4222/tcp"))

	if err := pool.Retry(func() error {
		nc, errRetry := nats.Connect(url)
		if errRetry != nil {
			return errRetry
		}
		nc.Close()
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to NATS: %s", err)
	}
	testNatsURL = url

	code := m.Run()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func TestHeaderCarrier_PropagatesTraceContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	header := make(nats.Header)
	prop := propagation.TraceContext{}
	prop.Inject(ctx, HeaderCarrier(header))

	assert.Contains(t, header.Get("traceparent"), traceID.String())
	assert.Contains(t, HeaderCarrier(header).Keys(), "traceparent")

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), HeaderCarrier(header)))
	assert.Equal(t, traceID, extracted.TraceID())
}

func TestPublisher_Publish(t *testing.T) {
	if testNatsURL == "" {
		t.Skip("NATS container not available")
	}
	pub, err := NewPublisher(testNatsURL, logger.NewNop(), "medixra-test")
	require.NoError(t, err)
	defer pub.Close()

	sub, err := nats.Connect(testNatsURL)
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("listing.created", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	require.NoError(t, pub.Publish(context.Background(), "listing.created", map[string]string{"listing_id": "l1"}))

	select {
	case msg := <-msgs:
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &body))
		assert.Equal(t, "l1", body["listing_id"])
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
