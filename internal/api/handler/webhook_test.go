package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/reachradar/reachradar/internal/queue"
)

type fakePublisher struct {
	envelopes []queue.Envelope
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, env queue.Envelope) error {
	f.envelopes = append(f.envelopes, env)
	return f.err
}

func newWebhookRouter(publisher *fakePublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWebhookHandler(publisher, nil)
	r.POST("/scrap-webhook/:jobId", h.Receive)
	r.POST("/scrap-webhook", h.Receive)
	return r
}

func TestWebhookHandler_Receive(t *testing.T) {
	publisher := &fakePublisher{}
	router := newWebhookRouter(publisher)

	body := []byte(`[{"name":"Jane Doe"}]`)
	req := httptest.NewRequest(http.MethodPost, "/scrap-webhook/job-123", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected 1 published envelope, got %d", len(publisher.envelopes))
	}
	env := publisher.envelopes[0]
	if env.Params.JobID != "job-123" {
		t.Errorf("unexpected job id: %q", env.Params.JobID)
	}
	if string(env.Body) != string(body) {
		t.Errorf("expected opaque relay of the body, got %s", env.Body)
	}
}

func TestWebhookHandler_ReceiveJobIDFromQuery(t *testing.T) {
	publisher := &fakePublisher{}
	router := newWebhookRouter(publisher)

	req := httptest.NewRequest(http.MethodPost, "/scrap-webhook?jobId=job-456", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(publisher.envelopes) != 1 || publisher.envelopes[0].Params.JobID != "job-456" {
		t.Errorf("expected envelope for job-456, got %+v", publisher.envelopes)
	}
}

func TestWebhookHandler_ReceiveMissingJobID(t *testing.T) {
	publisher := &fakePublisher{}
	router := newWebhookRouter(publisher)

	req := httptest.NewRequest(http.MethodPost, "/scrap-webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(publisher.envelopes) != 0 {
		t.Errorf("expected nothing published, got %d", len(publisher.envelopes))
	}
}

func TestWebhookHandler_ReceivePublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("queue unavailable")}
	router := newWebhookRouter(publisher)

	req := httptest.NewRequest(http.MethodPost, "/scrap-webhook/job-123", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The provider must see the failure so it can redeliver.
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
