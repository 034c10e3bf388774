// Package diagnose turns a deployment and its build events into a diagnostic
// summary: root cause, missing environment variables, missing dependencies,
// framework and remediation steps. Everything here is pure and in-memory.
package diagnose

import (
	"encoding/json"
)

// Deployment is one build/release instance as seen by the summarizer
type Deployment struct {
	ID        string  `json:"id" yaml:"id"`
	State     string  `json:"state" yaml:"state"`
	CreatedAt float64 `json:"created_at" yaml:"created_at"` // seconds since epoch
	Framework string  `json:"framework,omitempty" yaml:"framework,omitempty"`
}

// Event is one log/status entry emitted during a deployment.
// Text and Message are nil when the upstream record did not carry them as strings.
type Event struct {
	Type    string  `json:"type,omitempty"`
	Text    *string `json:"-"` // payload.text
	Message *string `json:"-"` // top-level message
	Created int64   `json:"created,omitempty"`
}

// Insights is the diagnosis derived from one deployment and its events
type Insights struct {
	RootCause           string   `json:"root_cause" yaml:"root_cause"`
	MissingEnvs         []string `json:"missing_envs" yaml:"missing_envs"`
	MissingDependencies []string `json:"missing_dependencies" yaml:"missing_dependencies"`
	Framework           string   `json:"framework" yaml:"framework"`
	BuildStatus         string   `json:"build_status" yaml:"build_status"`
	Recommendations     []string `json:"recommendations" yaml:"recommendations"`
}

// UnmarshalJSON decodes an upstream event record. Fields of an unexpected
// shape are treated as absent rather than failing the whole decode.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Event{}
	e.Type = stringField(raw, "type")
	e.Message = optionalString(raw, "message")

	if created, ok := raw["created"]; ok {
		var ms float64
		if json.Unmarshal(created, &ms) == nil {
			e.Created = int64(ms)
		}
	}

	if payloadRaw, ok := raw["payload"]; ok {
		var payload map[string]json.RawMessage
		if json.Unmarshal(payloadRaw, &payload) == nil {
			e.Text = optionalString(payload, "text")
		}
	}

	return nil
}

// MarshalJSON writes the event back in the upstream shape
func (e Event) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if e.Type != "" {
		out["type"] = e.Type
	}
	if e.Created != 0 {
		out["created"] = e.Created
	}
	if e.Message != nil {
		out["message"] = *e.Message
	}
	if e.Text != nil {
		out["payload"] = map[string]string{"text": *e.Text}
	}
	return json.Marshal(out)
}

func optionalString(m map[string]json.RawMessage, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	// null decodes into a string without error, so type-assert instead
	var decoded interface{}
	if err := json.Unmarshal(v, &decoded); err != nil {
		return nil
	}
	s, ok := decoded.(string)
	if !ok {
		return nil
	}
	return &s
}

func stringField(m map[string]json.RawMessage, key string) string {
	if s := optionalString(m, key); s != nil {
		return *s
	}
	return ""
}

// TextEvent builds an event carrying payload text, mostly useful in tests and fixtures
func TextEvent(eventType, text string) Event {
	return Event{Type: eventType, Text: &text}
}

// MessageEvent builds an event carrying only a top-level message
func MessageEvent(eventType, message string) Event {
	return Event{Type: eventType, Message: &message}
}
