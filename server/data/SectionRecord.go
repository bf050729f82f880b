package data

import "time"

// SectionRecord is one regulation section at one snapshot date. This is the
// unit of ingestion: every walk of a title for a version date produces exactly
// one record per citation, and records are never mutated after assembly. A
// later change to the same section shows up as a new record at a new
// version date.
type SectionRecord struct {
	InternalId  int       `json:"-"`
	Id          string    `json:"id"`
	VersionDate time.Time `json:"versionDate"`
	SnapshotTs  time.Time `json:"snapshotTs"`

	TitleNum  int    `json:"titleNum"`
	TitleName string `json:"titleName"`

	ChapterId       *string `json:"chapterId"`
	ChapterLabel    *string `json:"chapterLabel"`
	SubchapterId    *string `json:"subchapterId"`
	SubchapterLabel *string `json:"subchapterLabel"`
	PartNum         string  `json:"partNum"`
	PartLabel       *string `json:"partLabel"`
	SubpartId       *string `json:"subpartId"`
	SubpartLabel    *string `json:"subpartLabel"`
	AgencyName      *string `json:"agencyName"`

	SectionNum      string `json:"sectionNum"`
	SectionCitation string `json:"sectionCitation"` // e.g. "21 CFR § 101.9"
	SectionHeading  string `json:"sectionHeading"`
	SectionText     string `json:"sectionText"`
	NormalizedText  string `json:"normalizedText"`
	Reserved        bool   `json:"reserved"`

	PartOrder    int `json:"partOrder"`
	SectionOrder int `json:"sectionOrder"`

	WordCount             int     `json:"wordCount"`
	ObligationCount       int     `json:"obligationCount"`
	ProhibitionCount      int     `json:"prohibitionCount"`
	RequirementCount      int     `json:"requirementCount"`
	ExceptionCount        int     `json:"exceptionCount"`
	EnforcementCount      int     `json:"enforcementCount"`
	SentenceCount         int     `json:"sentenceCount"`
	AvgSentenceLength     float64 `json:"avgSentenceLength"`
	DollarMentions        int     `json:"dollarMentions"`
	TemporalReferences    int     `json:"temporalReferences"`
	CrossrefDensityPer1k  float64 `json:"crossrefDensityPer1k"`
	RegulatoryBurdenScore float64 `json:"regulatoryBurdenScore"`

	SectionHash string    `json:"sectionHash"`
	CreatedAt   time.Time `json:"createdAt"`
}
