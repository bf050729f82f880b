package data

// ChangeType classifies a citation between two snapshot dates.
type ChangeType string

const (
	ChangeAdded     ChangeType = "ADDED"
	ChangeRemoved   ChangeType = "REMOVED"
	ChangeModified  ChangeType = "MODIFIED"
	ChangeUnchanged ChangeType = "UNCHANGED"
)

// ChangeEntry is the diff output for a single citation. Entries are computed
// on demand from stored section hashes; they are not a persisted entity.
type ChangeEntry struct {
	SectionCitation string     `json:"sectionCitation"`
	ChangeType      ChangeType `json:"changeType"`
	FromHash        string     `json:"fromHash,omitempty"`
	ToHash          string     `json:"toHash,omitempty"`
}
