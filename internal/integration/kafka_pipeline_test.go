//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/geofix/internal/adapter/kafka"
	"github.com/couchcryptid/geofix/internal/adapter/sheet"
	"github.com/couchcryptid/geofix/internal/config"
	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
	"github.com/couchcryptid/geofix/internal/pipeline"
	"github.com/couchcryptid/geofix/internal/region"
)

const (
	testSinkTopic     = "test-corrected"
	testRejectedTopic = "test-rejected"
)

const scBoundary = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"id": "BRSC"},
    "geometry": {"type": "Polygon", "coordinates": [[[-54,-29],[-48,-29],[-48,-26],[-54,-26],[-54,-29]]]}
  }]
}`

// The JSON source hands numeric coordinates straight to the parser.
const inputRows = `[
  {"APÓLICE": "AP-1", "NUMERO_PI": "PI-1", "Municipio": "Chapecó", "UF": "SC", "LATITUDE": -27.1, "LONGITUDE": -52.6, "CULTURA": "soja"},
  {"APÓLICE": "AP-2", "NUMERO_PI": "PI-2", "Municipio": "Lisboa", "UF": "SC", "LATITUDE": "38.7 N", "LONGITUDE": "9.1 W", "CULTURA": "milho"},
  {"APÓLICE": "AP-3", "NUMERO_PI": "PI-3", "Municipio": "Atlantis", "UF": "XX", "LATITUDE": "abc", "LONGITUDE": "", "CULTURA": "trigo"}
]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	kc, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("geofix-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = kc.Terminate(context.Background()) })

	brokers, err := kc.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

type message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func readMessage(ctx context.Context, t *testing.T, consumer *kafkago.Reader) message {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return message{Key: string(msg.Key), Value: msg.Value, Headers: headers}
}

func newConsumer(t *testing.T, broker, topic string) *kafkago.Reader {
	t.Helper()
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("%s-%d", topic, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// TestPipelineEndToEnd runs a JSON input through correction and publishes
// the result to a real broker, then reads both topics back.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)
	createTopic(t, broker, testRejectedTopic)

	dir := t.TempDir()
	input := filepath.Join(dir, "apolices.json")
	require.NoError(t, os.WriteFile(input, []byte(inputRows), 0o600))

	ix, err := region.Parse([]byte(scBoundary))
	require.NoError(t, err)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSinkTopic:     testSinkTopic,
		KafkaRejectedTopic: testRejectedTopic,
		BatchSize:          50,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	corrector := domain.NewCorrector(domain.DefaultParser(), ix, nil, "BR", discardLogger())
	p := pipeline.New(sheet.NewJSON(input), corrector, pipeline.Loaders{writer},
		pipeline.Settings{Bounds: domain.BrazilBounds}, discardLogger(), observability.NewMetricsForTesting(), clockwork.NewRealClock())

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Initial)
	assert.Equal(t, 2, report.Final)

	sink := newConsumer(t, broker, testSinkTopic)
	want := map[string]domain.CorrectionTag{
		"AP-1|PI-1": domain.TagOriginal,
		"AP-2|PI-2": domain.TagCentroidAssigned,
	}
	for range want {
		msg := readMessage(ctx, t, sink)
		tag, ok := want[msg.Key]
		require.True(t, ok, "unexpected key %q", msg.Key)
		assert.Equal(t, string(tag), msg.Headers["correction_tag"])
		assert.Equal(t, "SC", msg.Headers["region"])

		var rec domain.LocationRecord
		require.NoError(t, json.Unmarshal(msg.Value, &rec))
		assert.True(t, rec.InsideRegion)
		require.NotNil(t, rec.Coordinate)
	}

	rejected := newConsumer(t, broker, testRejectedTopic)
	msg := readMessage(ctx, t, rejected)
	assert.Equal(t, "AP-3|PI-3", msg.Key)
	assert.Equal(t, "no_coordinate", msg.Headers["reason"])
	assert.Equal(t, "none", msg.Headers["correction_tag"])

	var rj domain.Rejection
	require.NoError(t, json.Unmarshal(msg.Value, &rj))
	assert.Equal(t, domain.ReasonNoCoordinate, rj.Reason)
	assert.Equal(t, "Atlantis", rj.Record.Place)
}
