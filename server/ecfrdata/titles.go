package ecfrdata

// TitlesResponse is the versioner titles listing.
type TitlesResponse struct {
	Titles []TitleInfo `json:"titles"`
}

// TitleInfo is the per-title metadata row from the titles listing. The
// amendment fields drive backfill skipping: a title whose latest amendment
// predates a snapshot interval cannot have changed within it.
type TitleInfo struct {
	Number          int    `json:"number"`
	Name            string `json:"name"`
	Reserved        bool   `json:"reserved"`
	LatestAmendedOn string `json:"latest_amended_on"` // YYYY-MM-DD
	LatestIssueDate string `json:"latest_issue_date"`
	UpToDateAsOf    string `json:"up_to_date_as_of"`
}
