package diagnose

// NoRootCause is the root cause reported when no line matches ErrorPhrases
const NoRootCause = "No explicit error message found in logs."

// Remediation texts
const (
	RecommendBuildCommand = "Verify the build command in Vercel project settings."
	RecommendDashboardEnv = "Confirm all required environment variables are configured in the Vercel dashboard."
	RecommendLocalBuild   = "Reproduce the build locally with `npm run build` to validate the fix before redeploying."
	RecommendSetEnvs      = "Set the missing environment variables noted in the logs."
	RecommendInstallDeps  = "Install or declare the dependencies that are reported as missing."
)

// BaselineRecommendations are always part of the report, in this order
func BaselineRecommendations() []string {
	return []string{RecommendBuildCommand, RecommendDashboardEnv, RecommendLocalBuild}
}

// Derive computes the insights for one deployment from its events. It never fails.
func Derive(d Deployment, events []Event) Insights {
	lines := EventLines(events)

	rootCause := NoRootCause
	if errorLines := MatchLines(lines, ErrorPhrases); len(errorLines) > 0 {
		// later lines sit closer to the terminal failure
		rootCause = errorLines[len(errorLines)-1]
	}

	missingEnvs := MatchLines(lines, MissingEnvPhrases)
	missingDeps := MatchLines(lines, MissingDependencyPhrases)

	return Insights{
		RootCause:           rootCause,
		MissingEnvs:         missingEnvs,
		MissingDependencies: missingDeps,
		Framework:           ResolveFramework(d, lines),
		BuildStatus:         d.State,
		Recommendations:     recommendations(len(missingEnvs) > 0, len(missingDeps) > 0),
	}
}

// recommendations inserts the env remediation after the first baseline entry,
// then the dependency remediation at the same index, so with both present the
// dependency entry comes first.
func recommendations(missingEnvs, missingDeps bool) []string {
	recs := BaselineRecommendations()
	if missingEnvs {
		recs = insertAt(recs, 1, RecommendSetEnvs)
	}
	if missingDeps {
		recs = insertAt(recs, 1, RecommendInstallDeps)
	}
	return recs
}

func insertAt(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
