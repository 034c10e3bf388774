package diagnose

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Section markers of the rendered report
const (
	MarkerDeployment   = "🔗 Latest deployment:"
	MarkerBuildStatus  = "🔍 BUILD STATUS |"
	MarkerRootCause    = "🧠 ROOT CAUSE |"
	MarkerFix          = "🛠 FIX RECOMMENDATION |"
	HeadingMissingEnvs = "Missing ENV Vars:"
	HeadingMissingDeps = "Missing Dependencies:"
)

const (
	createdLayout        = "2006-01-02 15:04:05"
	bulletPrefix         = "\n  - "
	unknownFrameworkText = "Unknown"
)

// Renderer formats insights as a plain-text report.
// Location controls the timezone of the creation timestamp; nil means time.Local.
type Renderer struct {
	Location *time.Location
}

// Render formats the report using local time
func Render(ins Insights, d Deployment) string {
	return Renderer{}.Render(ins, d)
}

// Summarize derives and renders in one step
func Summarize(d Deployment, events []Event) string {
	return Render(Derive(d, events), d)
}

// Render formats the report. The output only depends on its inputs.
func (r Renderer) Render(ins Insights, d Deployment) string {
	framework := ins.Framework
	if framework == "" || framework == FrameworkUnknown {
		framework = unknownFrameworkText
	}

	sections := []string{
		fmt.Sprintf("%s %s | Created: %s", MarkerDeployment, d.ID, r.FormatCreated(d.CreatedAt)),
		fmt.Sprintf("%s %s | Framework: %s", MarkerBuildStatus, strings.ToUpper(ins.BuildStatus), framework),
		fmt.Sprintf("%s %s", MarkerRootCause, ins.RootCause),
	}

	if len(ins.MissingEnvs) > 0 {
		sections = append(sections, bulleted(HeadingMissingEnvs, ins.MissingEnvs))
	}
	if len(ins.MissingDependencies) > 0 {
		sections = append(sections, bulleted(HeadingMissingDeps, ins.MissingDependencies))
	}
	sections = append(sections, bulleted(MarkerFix, ins.Recommendations))

	return strings.Join(sections, "\n\n")
}

// FormatCreated renders epoch seconds with the report's timestamp layout
func (r Renderer) FormatCreated(seconds float64) string {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)).In(loc).Format(createdLayout)
}

func bulleted(heading string, items []string) string {
	return heading + bulletPrefix + strings.Join(items, bulletPrefix)
}
