package vercel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/audiojones/opscheck/pkg/httpclient"
	"github.com/hashicorp/go-hclog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token", hclog.NewNullLogger(),
		httpclient.WithRetryMax(0), httpclient.WithRetryWait(time.Millisecond, time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		wantURL string
		wantErr bool
	}{
		{name: "defaults base URL", token: "t", wantURL: DefaultAPIURL},
		{name: "custom base URL", baseURL: "http://localhost:9999/", token: "t", wantURL: "http://localhost:9999"},
		{name: "empty token", baseURL: "http://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.token, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && client.GetBaseURL() != tt.wantURL {
				t.Errorf("GetBaseURL() = %q, want %q", client.GetBaseURL(), tt.wantURL)
			}
		})
	}
}

func TestClient_ListDeployments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/deployments" {
			t.Errorf("Expected path /v6/deployments, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("projectId") != "prj_web" || q.Get("limit") != "20" || q.Get("teamId") != "team_1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token")
		}
		w.Write([]byte(`{"deployments":[
			{"uid":"dpl_old","state":"READY","created":1000,"url":"old.vercel.app"},
			{"uid":"dpl_new","state":"ERROR","created":5500,"meta":{"framework":"nextjs"}}
		]}`))
	})

	deployments, err := client.ListDeployments(context.Background(), ListOptions{ProjectID: "prj_web", TeamID: "team_1"})
	if err != nil {
		t.Fatalf("ListDeployments() error = %v", err)
	}
	if len(deployments) != 2 {
		t.Fatalf("expected 2 deployments, got %d", len(deployments))
	}

	got := deployments[1].Diagnostic()
	want := diagnose.Deployment{ID: "dpl_new", State: "ERROR", CreatedAt: 5.5, Framework: "nextjs"}
	if got != want {
		t.Errorf("Diagnostic() = %+v, want %+v", got, want)
	}
}

func TestClient_ListDeployments_RequiresProject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := client.ListDeployments(context.Background(), ListOptions{}); err == nil {
		t.Error("expected error for empty project")
	}
}

func TestClient_ListDeployments_MalformedMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deployments":[
			{"uid":"dpl_list","state":"ERROR","created":1000,"meta":[]},
			{"uid":"dpl_str","state":"READY","created":2000,"meta":"nextjs"},
			{"uid":"dpl_num","state":"READY","created":3000,"meta":{"framework":7}},
			{"uid":"dpl_null","state":"READY","created":4000,"meta":null},
			{"uid":"dpl_ok","state":"READY","created":5000,"meta":{"framework":"astro"}}
		]}`))
	})

	deployments, err := client.ListDeployments(context.Background(), ListOptions{ProjectID: "prj"})
	if err != nil {
		t.Fatalf("ListDeployments() error = %v", err)
	}
	if len(deployments) != 5 {
		t.Fatalf("expected 5 deployments, got %d", len(deployments))
	}

	want := []string{"", "", "", "", "astro"}
	for i, d := range deployments {
		if got := d.Framework(); got != want[i] {
			t.Errorf("%s Framework() = %q, want %q", d.UID, got, want[i])
		}
	}
}

func TestDeployment_DiagnosticDefaults(t *testing.T) {
	got := Deployment{UID: "dpl_1"}.Diagnostic()
	if got.State != "unknown" || got.Framework != "" || got.CreatedAt != 0 {
		t.Errorf("Diagnostic() = %+v", got)
	}
}

func TestClient_Events(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTexts []string
		wantErr   bool
	}{
		{
			name:      "bare array",
			body:      `[{"type":"stdout","payload":{"text":"Installing"}},{"type":"stderr","payload":{"text":"Error: boom"}}]`,
			wantTexts: []string{"Installing", "Error: boom"},
		},
		{
			name:      "events envelope with message fallback",
			body:      `{"events":[{"type":"command","message":"npm run build"}]}`,
			wantTexts: []string{"npm run build"},
		},
		{
			name:      "non-object entries dropped",
			body:      `[null, "text", 3, {"payload":{"text":"kept"}}]`,
			wantTexts: []string{"kept"},
		},
		{
			name:    "unexpected payload",
			body:    `"nope"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v13/deployments/dpl_1/events" {
					t.Errorf("Expected events path, got %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})

			events, err := client.Events(context.Background(), "dpl_1", "")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Events() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var texts []string
			for _, e := range events {
				texts = append(texts, diagnose.EventText(e))
			}
			if strings.Join(texts, "|") != strings.Join(tt.wantTexts, "|") {
				t.Errorf("texts = %v, want %v", texts, tt.wantTexts)
			}
		})
	}
}

func TestClient_LatestDiagnosis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v6/deployments":
			w.Write([]byte(`{"deployments":[
				{"uid":"A","state":"READY","created":100000},
				{"uid":"B","state":"ERROR","created":200000}
			]}`))
		case "/v13/deployments/B/events":
			w.Write([]byte(`[
				{"type":"stderr","payload":{"text":"Error: Module not found: 'foo'"}},
				{"type":"stdout","payload":{"text":"Build completed"}}
			]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	diag, err := client.LatestDiagnosis(context.Background(), ListOptions{ProjectID: "prj"}, diagnose.Renderer{Location: time.UTC})
	if err != nil {
		t.Fatalf("LatestDiagnosis() error = %v", err)
	}
	if diag.Deployment.ID != "B" {
		t.Errorf("selected %s, want B", diag.Deployment.ID)
	}
	if diag.Insights.RootCause != "Error: Module not found: 'foo'" {
		t.Errorf("RootCause = %q", diag.Insights.RootCause)
	}
	if len(diag.Insights.MissingDependencies) != 1 {
		t.Errorf("MissingDependencies = %v", diag.Insights.MissingDependencies)
	}
	if !strings.HasPrefix(diag.Report, "🔗 Latest deployment: B | Created: 1970-01-01 00:03:20") {
		t.Errorf("unexpected report header:\n%s", diag.Report)
	}
}

func TestClient_LatestDiagnosis_NoDeployments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/deployments" {
			t.Errorf("events must not be fetched, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"deployments":[]}`))
	})

	diag, err := client.LatestDiagnosis(context.Background(), ListOptions{ProjectID: "prj"}, diagnose.Renderer{})
	if !errors.Is(err, diagnose.ErrNoDeploymentsFound) {
		t.Fatalf("expected ErrNoDeploymentsFound, got %v", err)
	}
	if diag != nil {
		t.Error("no diagnosis expected")
	}
}

func TestClient_LatestDiagnosis_FetchFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"forbidden","message":"Not authorized"}}`))
	})

	_, err := client.LatestDiagnosis(context.Background(), ListOptions{ProjectID: "prj"}, diagnose.Renderer{})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, diagnose.ErrNoDeploymentsFound) {
		t.Error("fetch failure must be distinct from an empty listing")
	}
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected wrapped 403 APIError, got %v", err)
	}
}
