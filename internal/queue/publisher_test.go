package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/reachradar/reachradar/internal/logger"
)

type fakeSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_Publish(t *testing.T) {
	sender := &fakeSender{}
	p := &Publisher{
		client:   sender,
		queueURL: "https://sqs.example.com/queue",
		logger:   logger.New(nil),
	}

	env := NewEnvelope("job-123", []byte(`[{"name":"Jane"}]`))
	if err := p.Publish(context.Background(), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.inputs) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.inputs))
	}
	input := sender.inputs[0]
	if aws.ToString(input.QueueUrl) != "https://sqs.example.com/queue" {
		t.Errorf("unexpected queue url: %q", aws.ToString(input.QueueUrl))
	}

	attr, ok := input.MessageAttributes["job_id"]
	if !ok {
		t.Fatal("expected job_id message attribute")
	}
	if aws.ToString(attr.StringValue) != "job-123" {
		t.Errorf("unexpected job_id attribute: %q", aws.ToString(attr.StringValue))
	}

	var decoded Envelope
	if err := json.Unmarshal([]byte(aws.ToString(input.MessageBody)), &decoded); err != nil {
		t.Fatalf("body is not a valid envelope: %v", err)
	}
	if decoded.Params.JobID != "job-123" {
		t.Errorf("unexpected envelope job id: %q", decoded.Params.JobID)
	}
	if string(decoded.Body) != `[{"name":"Jane"}]` {
		t.Errorf("unexpected envelope body: %s", decoded.Body)
	}
}

func TestPublisher_PublishSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("queue unavailable")}
	p := &Publisher{
		client:   sender,
		queueURL: "https://sqs.example.com/queue",
		logger:   logger.New(nil),
	}

	if err := p.Publish(context.Background(), NewEnvelope("job-123", nil)); err == nil {
		t.Error("expected an error when the send fails")
	}
}
