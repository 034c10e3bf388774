package diagnose

import (
	"errors"
	"sort"
)

// ErrNoDeploymentsFound is returned when there is nothing to select from.
// It describes a successful but empty listing, not a failed fetch.
var ErrNoDeploymentsFound = errors.New("no deployments found for the specified project")

// SortByCreated returns a copy of deployments ordered newest first.
// Deployments with equal timestamps keep their input order.
func SortByCreated(deployments []Deployment) []Deployment {
	sorted := make([]Deployment, len(deployments))
	copy(sorted, deployments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	return sorted
}

// SelectLatest picks the deployment with the greatest CreatedAt
func SelectLatest(deployments []Deployment) (Deployment, error) {
	if len(deployments) == 0 {
		return Deployment{}, ErrNoDeploymentsFound
	}
	return SortByCreated(deployments)[0], nil
}
