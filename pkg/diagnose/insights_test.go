package diagnose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_RootCause(t *testing.T) {
	t.Run("placeholder without error lines", func(t *testing.T) {
		ins := Derive(Deployment{State: "READY"}, []Event{TextEvent("stdout", "Build completed")})
		assert.Equal(t, NoRootCause, ins.RootCause)
	})

	t.Run("placeholder without events", func(t *testing.T) {
		ins := Derive(Deployment{State: "READY"}, nil)
		assert.Equal(t, NoRootCause, ins.RootCause)
		assert.Empty(t, ins.MissingEnvs)
		assert.Empty(t, ins.MissingDependencies)
	})

	t.Run("last error line wins", func(t *testing.T) {
		ins := Derive(Deployment{}, []Event{
			TextEvent("stderr", "warning: failed to fetch cache"),
			TextEvent("stdout", "compiling"),
			TextEvent("stderr", "  Error: Command \"npm run build\" exited with 1  "),
			TextEvent("stdout", "done"),
		})
		assert.Equal(t, `Error: Command "npm run build" exited with 1`, ins.RootCause)
	})
}

func TestDerive_EndToEnd(t *testing.T) {
	deployments := []Deployment{
		{ID: "A", CreatedAt: 100, State: "READY"},
		{ID: "B", CreatedAt: 200, State: "ERROR"},
	}
	latest, err := SelectLatest(deployments)
	assert.NoError(t, err)
	assert.Equal(t, "B", latest.ID)

	ins := Derive(latest, []Event{
		TextEvent("stderr", "Error: Module not found: 'foo'"),
		TextEvent("stdout", "Build completed"),
	})

	assert.Equal(t, []string{"Error: Module not found: 'foo'"}, ins.MissingDependencies)
	assert.Equal(t, "Error: Module not found: 'foo'", ins.RootCause)
	assert.Empty(t, ins.MissingEnvs)
	assert.Equal(t, "ERROR", ins.BuildStatus)
	assert.Equal(t, FrameworkUnknown, ins.Framework)
}

func TestDerive_Recommendations(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   []string
	}{
		{
			name:   "baseline only",
			events: []Event{TextEvent("stdout", "all good")},
			want:   BaselineRecommendations(),
		},
		{
			name:   "missing env",
			events: []Event{TextEvent("stderr", "DATABASE_URL is not set")},
			want: []string{
				RecommendBuildCommand,
				RecommendSetEnvs,
				RecommendDashboardEnv,
				RecommendLocalBuild,
			},
		},
		{
			name:   "missing dependency",
			events: []Event{TextEvent("stderr", "Cannot find module 'react'")},
			want: []string{
				RecommendBuildCommand,
				RecommendInstallDeps,
				RecommendDashboardEnv,
				RecommendLocalBuild,
			},
		},
		{
			name: "both: dependency entry precedes env entry",
			events: []Event{
				TextEvent("stderr", "env var STRIPE_KEY missing"),
				TextEvent("stderr", "npm ERR! missing script: build"),
			},
			want: []string{
				RecommendBuildCommand,
				RecommendInstallDeps,
				RecommendSetEnvs,
				RecommendDashboardEnv,
				RecommendLocalBuild,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(Deployment{}, tt.events).Recommendations)
		})
	}
}

func TestDerive_FrameworkPrefersDeployment(t *testing.T) {
	ins := Derive(Deployment{Framework: "astro"}, []Event{TextEvent("stdout", "Detected Next.js")})
	assert.Equal(t, "astro", ins.Framework)
}

func TestBaselineRecommendations_ReturnsFreshSlice(t *testing.T) {
	a := BaselineRecommendations()
	a[0] = "changed"
	assert.Equal(t, RecommendBuildCommand, BaselineRecommendations()[0])
}
