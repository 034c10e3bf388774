package diagnose

// FrameworkUnknown is reported when neither the deployment nor its logs name a framework
const FrameworkUnknown = "unknown"

// ResolveFramework prefers the deployment's own framework and otherwise scans
// lines once; the first line mentioning a marker decides.
func ResolveFramework(d Deployment, lines []string) string {
	if d.Framework != "" {
		return d.Framework
	}
	for _, line := range lines {
		if marker, ok := FrameworkMarkers.Match(line); ok {
			return marker
		}
	}
	return FrameworkUnknown
}
