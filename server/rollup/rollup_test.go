package rollup

import (
	"testing"
	"time"

	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/hasher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(titleNum int, partNum, sectionNum string, words int, burden float64, agency string) *data.SectionRecord {
	rec := &data.SectionRecord{
		VersionDate:           time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		TitleNum:              titleNum,
		TitleName:             "Test Title",
		PartNum:               partNum,
		SectionNum:            sectionNum,
		SectionCitation:       "21 CFR § " + sectionNum,
		WordCount:             words,
		RegulatoryBurdenScore: burden,
		SectionHash:           hasher.Section(sectionNum),
	}
	if agency != "" {
		rec.AgencyName = &agency
	}
	return rec
}

func TestPartSummariesAggregates(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 100, 10, "FDA"),
		record(21, "101", "101.9", 300, 30, "FDA"),
		record(21, "2", "2.1", 50, 5, "FDA"),
	}
	records[1].Reserved = true

	parts := PartSummaries(records)
	require.Len(t, parts, 2)

	// Ordered by the numeric part comparator: 2 before 101.
	assert.Equal(t, "2", parts[0].PartNum)
	assert.Equal(t, "101", parts[1].PartNum)

	p101 := parts[1]
	assert.Equal(t, 2, p101.SectionCount)
	assert.Equal(t, 1, p101.ReservedCount)
	assert.Equal(t, 400, p101.PartWordCount)
	assert.InDelta(t, 20.0, p101.AvgBurdenScore, 0.0001)
	assert.Equal(t, 30.0, p101.MaxBurdenScore)
}

func TestPartSummariesWordCountIsSumOfSections(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 120, 1, ""),
		record(21, "101", "101.2", 80, 1, ""),
		record(21, "101", "101.3", 0, 0, ""),
	}

	parts := PartSummaries(records)
	require.Len(t, parts, 1)

	sum := 0
	for _, rec := range records {
		sum += rec.WordCount
	}
	assert.Equal(t, sum, parts[0].PartWordCount)
}

func TestPartSummariesHashMatchesHasher(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 100, 10, ""),
		record(21, "101", "101.9", 300, 30, ""),
	}

	parts := PartSummaries(records)
	require.Len(t, parts, 1)

	want := hasher.Part(map[string]string{
		records[0].SectionCitation: records[0].SectionHash,
		records[1].SectionCitation: records[1].SectionHash,
	})
	assert.Equal(t, want, parts[0].PartHash)
}

func TestAgencySummariesGroupsAndAggregates(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 100, 10, "FDA"),
		record(21, "2", "2.1", 50, 20, "FDA"),
		record(21, "500", "500.1", 70, 8, "DEA"),
	}

	parts := PartSummaries(records)
	agencies := AgencySummaries(parts)
	require.Len(t, agencies, 2)

	// Sorted by agency name.
	assert.Equal(t, "DEA", agencies[0].AgencyName)
	assert.Equal(t, "FDA", agencies[1].AgencyName)

	fda := agencies[1]
	assert.Equal(t, 2, fda.PartCount)
	assert.Equal(t, 2, fda.SectionCount)
	assert.Equal(t, 150, fda.AgencyWordCount)
	assert.InDelta(t, 15.0, fda.AvgBurdenScore, 0.0001)
}

func TestAgencySummariesKeepUnattributedParts(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 100, 10, ""),
	}

	agencies := AgencySummaries(PartSummaries(records))
	require.Len(t, agencies, 1)
	assert.Equal(t, "", agencies[0].AgencyName)
	assert.Equal(t, 1, agencies[0].PartCount)
}

func TestAgencySummariesHashMatchesHasher(t *testing.T) {
	records := []*data.SectionRecord{
		record(21, "101", "101.1", 100, 10, "FDA"),
		record(21, "2", "2.1", 50, 20, "FDA"),
	}

	parts := PartSummaries(records)
	agencies := AgencySummaries(parts)
	require.Len(t, agencies, 1)

	hashes := make(map[hasher.PartKey]string, len(parts))
	for _, p := range parts {
		hashes[hasher.PartKey{TitleNum: p.TitleNum, PartNum: p.PartNum}] = p.PartHash
	}
	assert.Equal(t, hasher.Agency(hashes), agencies[0].AgencyHash)
}

func TestPartSummariesEmptyInput(t *testing.T) {
	assert.Empty(t, PartSummaries(nil))
	assert.Empty(t, AgencySummaries(nil))
}
