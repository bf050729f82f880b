package data

import (
	"fmt"
	"time"
)

// ComputedValue is a keyed JSON blob for derived artifacts that are cheap to
// regenerate but useful to keep: change summaries and backfill run manifests.
type ComputedValue struct {
	InternalId string    `json:"-"`
	Key        string    `json:"key"`
	Data       []byte    `json:"data"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ComputedValueKeyChangeSummary keys the persisted change summary for one
// title between two snapshot dates.
func ComputedValueKeyChangeSummary(titleNum int, fromDate, toDate time.Time) string {
	return fmt.Sprintf("section-changes__%d__%s__%s",
		titleNum, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
}

// ComputedValueKeyRunManifest keys a backfill run manifest.
func ComputedValueKeyRunManifest(runId string) string {
	return fmt.Sprintf("backfill-manifest__%s", runId)
}
