package tui

import (
	"strings"
	"testing"

	"github.com/audiojones/opscheck/pkg/diagnose"
)

func TestStateIndicator(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"READY", "[+] READY"},
		{"ERROR", "[-] ERROR"},
		{"canceled", "[-] canceled"},
		{"BUILDING", "[*] BUILDING"},
		{"QUEUED", "[~] QUEUED"},
		{"unknown", "[ ] unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := StateIndicator(tt.state); got != tt.want {
				t.Errorf("StateIndicator(%q) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestRenderReport_PreservesText(t *testing.T) {
	d := diagnose.Deployment{ID: "dpl_1", State: "ERROR", CreatedAt: 0}
	ins := diagnose.Derive(d, []diagnose.Event{
		diagnose.TextEvent("stderr", "Error: env var API_KEY not set"),
	})
	report := diagnose.Render(ins, d)

	got := RenderReport(report, ins)

	for _, line := range strings.Split(report, "\n") {
		if !strings.Contains(got, line) {
			t.Errorf("rendered report lost line %q", line)
		}
	}
	if strings.Count(got, "\n") != strings.Count(report, "\n") {
		t.Errorf("line count changed")
	}
}

func TestRenderHelpers(t *testing.T) {
	if !strings.Contains(RenderError("boom"), "boom") {
		t.Error("RenderError dropped text")
	}
	if !strings.Contains(RenderSuccess("ok"), StatusSuccess) {
		t.Error("RenderSuccess missing indicator")
	}
	if !strings.Contains(RenderWarning("careful"), StatusWarning) {
		t.Error("RenderWarning missing indicator")
	}
}
