package data

import "time"

// PartSummary is the per-part rollup for one version date. Summaries are
// regenerated wholesale for an affected date, never patched in place.
type PartSummary struct {
	VersionDate     time.Time `json:"versionDate"`
	TitleNum        int       `json:"titleNum"`
	TitleName       string    `json:"titleName"`
	ChapterLabel    *string   `json:"chapterLabel"`
	SubchapterLabel *string   `json:"subchapterLabel"`
	PartNum         string    `json:"partNum"`
	PartLabel       *string   `json:"partLabel"`
	AgencyName      *string   `json:"agencyName"`
	SectionCount    int       `json:"sectionCount"`
	ReservedCount   int       `json:"reservedCount"`
	PartWordCount   int       `json:"partWordCount"`
	AvgBurdenScore  float64   `json:"avgBurdenScore"`
	MaxBurdenScore  float64   `json:"maxBurdenScore"`
	PartHash        string    `json:"partHash"`
}

// AgencySummary is the per-agency rollup for one version date, reduced from
// part summaries.
type AgencySummary struct {
	VersionDate     time.Time `json:"versionDate"`
	AgencyName      string    `json:"agencyName"`
	PartCount       int       `json:"partCount"`
	SectionCount    int       `json:"sectionCount"`
	AgencyWordCount int       `json:"agencyWordCount"`
	AvgBurdenScore  float64   `json:"avgBurdenScore"`
	AgencyHash      string    `json:"agencyHash"`
}
