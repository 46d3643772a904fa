package queue

import "encoding/json"

// Envelope is the wire format between the webhook relay and the consumer:
// the job correlation id under params, the raw provider payload under body.
type Envelope struct {
	Params EnvelopeParams  `json:"params"`
	Body   json.RawMessage `json:"body"`
}

// EnvelopeParams carries the routing parameters of a relayed webhook.
type EnvelopeParams struct {
	JobID string `json:"jobId"`
}

// NewEnvelope wraps a raw webhook payload with its job correlation id.
func NewEnvelope(jobID string, body []byte) Envelope {
	return Envelope{
		Params: EnvelopeParams{JobID: jobID},
		Body:   json.RawMessage(body),
	}
}
