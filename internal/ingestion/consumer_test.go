package ingestion

import (
	"context"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

type recordingProcessor struct {
	bucket string
	key    string
	calls  int
	err    error
}

func (r *recordingProcessor) Process(ctx context.Context, bucket, key string) error {
	r.calls++
	r.bucket = bucket
	r.key = key
	return r.err
}

func finalizeMessage(bucket, name string) *pubsub.Message {
	return &pubsub.Message{
		ID:   "m1",
		Data: []byte(`{"name":"` + name + `","bucket":"` + bucket + `"}`),
		Attributes: map[string]string{
			"eventType":     objectFinalizeEvent,
			"payloadFormat": payloadFormatJSONAPI,
			"bucketId":      bucket,
			"objectId":      name,
		},
	}
}

func newTestConsumer(t *testing.T, proc processor) *Consumer {
	t.Helper()
	return &Consumer{
		pipeline: proc,
		logg:     logger.New(logger.Options{ServiceName: "test"}),
	}
}

func TestConsumerProcessesFinalizeEvent(t *testing.T) {
	t.Parallel()

	proc := &recordingProcessor{}
	consumer := newTestConsumer(t, proc)

	result := consumer.process(context.Background(), finalizeMessage("docs-bucket", "uploads/id/report.pdf"))
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if proc.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", proc.calls)
	}
	if proc.bucket != "docs-bucket" || proc.key != "uploads/id/report.pdf" {
		t.Fatalf("unexpected pipeline call %s/%s", proc.bucket, proc.key)
	}
}

func TestConsumerAcksNonFinalizeEvent(t *testing.T) {
	t.Parallel()

	proc := &recordingProcessor{}
	consumer := newTestConsumer(t, proc)

	msg := finalizeMessage("docs-bucket", "uploads/id/report.pdf")
	msg.Attributes["eventType"] = "OBJECT_DELETE"

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatal("expected ack for non-finalize event")
	}
	if proc.calls != 0 {
		t.Fatal("expected no pipeline call for non-finalize event")
	}
}

func TestConsumerAcksUndecodablePayload(t *testing.T) {
	t.Parallel()

	proc := &recordingProcessor{}
	consumer := newTestConsumer(t, proc)

	msg := finalizeMessage("docs-bucket", "uploads/id/report.pdf")
	msg.Data = []byte("{{{{")

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatal("expected ack for undecodable payload")
	}
	if proc.calls != 0 {
		t.Fatal("expected no pipeline call for undecodable payload")
	}
}

func TestConsumerAcksMissingObjectName(t *testing.T) {
	t.Parallel()

	proc := &recordingProcessor{}
	consumer := newTestConsumer(t, proc)

	msg := finalizeMessage("docs-bucket", "uploads/id/report.pdf")
	msg.Data = []byte(`{"bucket":"docs-bucket"}`)

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatal("expected ack when payload lacks object name")
	}
	if proc.calls != 0 {
		t.Fatal("expected no pipeline call")
	}
}

func TestConsumerNacksTransientPipelineError(t *testing.T) {
	t.Parallel()

	proc := &recordingProcessor{err: context.DeadlineExceeded}
	consumer := newTestConsumer(t, proc)

	result := consumer.process(context.Background(), finalizeMessage("docs-bucket", "uploads/id/report.pdf"))
	if !result.nack {
		t.Fatal("expected nack for transient pipeline error")
	}
}

func TestDecodePayloadBase64(t *testing.T) {
	t.Parallel()

	decoded, err := decodePayload([]byte("eyJuYW1lIjoiYSJ9"))
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if string(decoded) != `{"name":"a"}` {
		t.Fatalf("unexpected decoded payload %s", decoded)
	}

	raw, err := decodePayload([]byte(`{"name":"a"}`))
	if err != nil {
		t.Fatalf("decodePayload raw: %v", err)
	}
	if string(raw) != `{"name":"a"}` {
		t.Fatalf("unexpected raw payload %s", raw)
	}
}
