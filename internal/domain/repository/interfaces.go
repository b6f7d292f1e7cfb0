package repository

import "time"

// Metrics records orchestrator and catalog activity.
type Metrics interface {
	RecordPrediction(profile, outcome string, d time.Duration)
	RecordRejected(profile string)
	RecordCatalogFetch(resource, outcome string)
	SetInFlight(inFlight bool)
}
