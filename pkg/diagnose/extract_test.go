package diagnose

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventText(t *testing.T) {
	text := "payload text"
	msg := "top message"

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"payload text preferred", Event{Text: &text, Message: &msg}, "payload text"},
		{"falls back to message", Event{Message: &msg}, "top message"},
		{"nothing usable", Event{Type: "stdout"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventText(tt.event))
		})
	}
}

func TestEvent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantText string
	}{
		{
			name:     "nested payload text",
			raw:      `{"type":"stderr","created":1700000000000,"payload":{"text":"Error: boom"}}`,
			wantType: "stderr",
			wantText: "Error: boom",
		},
		{
			name:     "top-level message",
			raw:      `{"type":"command","message":"Running build"}`,
			wantType: "command",
			wantText: "Running build",
		},
		{
			name:     "payload text not a string falls back to message",
			raw:      `{"payload":{"text":42},"message":"fallback"}`,
			wantText: "fallback",
		},
		{
			name:     "payload text null falls back to message",
			raw:      `{"type":"stderr","payload":{"text":null},"message":"Error: Cannot find module 'x'"}`,
			wantType: "stderr",
			wantText: "Error: Cannot find module 'x'",
		},
		{
			name:     "null message is absent",
			raw:      `{"message":null}`,
			wantText: "",
		},
		{
			name:     "payload not an object",
			raw:      `{"payload":"flat","message":["not","a","string"]}`,
			wantText: "",
		},
		{
			name:     "type of wrong shape",
			raw:      `{"type":7,"payload":{"text":"ok"}}`,
			wantText: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Event
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &e))
			assert.Equal(t, tt.wantType, e.Type)
			assert.Equal(t, tt.wantText, EventText(e))
		})
	}
}

func TestDerive_NullPayloadTextUsesMessage(t *testing.T) {
	var e Event
	raw := `{"type":"stderr","payload":{"text":null},"message":"Error: Cannot find module 'x'"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Nil(t, e.Text)
	ins := Derive(Deployment{ID: "dpl_1", State: "ERROR"}, []Event{e})
	assert.Equal(t, "Error: Cannot find module 'x'", ins.RootCause)
}

func TestEvent_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	var e Event
	assert.Error(t, json.Unmarshal([]byte(`"just a string"`), &e))
}

func TestEventLines_SkipsEmpty(t *testing.T) {
	events := []Event{
		TextEvent("stdout", "first"),
		{Type: "delimiter"},
		MessageEvent("stdout", ""),
		MessageEvent("stdout", "second"),
	}

	assert.Equal(t, []string{"first", "second"}, EventLines(events))
}
