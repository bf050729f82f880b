package rollup

import (
	"sort"

	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/hasher"
)

// PartSummaries reduces one version date's section records to per-part
// summaries, grouped by (title, part) and ordered by the same comparator the
// hasher uses. The part digest recomputed here must equal the hasher's: both
// sides aggregate child section hashes ordered by citation.
func PartSummaries(records []*data.SectionRecord) []*data.PartSummary {
	type key struct {
		titleNum int
		partNum  string
	}

	groups := make(map[key][]*data.SectionRecord)
	for _, rec := range records {
		k := key{titleNum: rec.TitleNum, partNum: rec.PartNum}
		groups[k] = append(groups[k], rec)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].titleNum != keys[j].titleNum {
			return keys[i].titleNum < keys[j].titleNum
		}
		return hasher.PartNumLess(keys[i].partNum, keys[j].partNum)
	})

	summaries := make([]*data.PartSummary, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		first := group[0]

		summary := &data.PartSummary{
			VersionDate:     first.VersionDate,
			TitleNum:        first.TitleNum,
			TitleName:       first.TitleName,
			ChapterLabel:    first.ChapterLabel,
			SubchapterLabel: first.SubchapterLabel,
			PartNum:         first.PartNum,
			PartLabel:       first.PartLabel,
			AgencyName:      first.AgencyName,
		}

		hashes := make(map[string]string, len(group))
		var burdenSum float64
		for _, rec := range group {
			summary.SectionCount++
			if rec.Reserved {
				summary.ReservedCount++
			}
			summary.PartWordCount += rec.WordCount
			burdenSum += rec.RegulatoryBurdenScore
			if rec.RegulatoryBurdenScore > summary.MaxBurdenScore {
				summary.MaxBurdenScore = rec.RegulatoryBurdenScore
			}
			hashes[rec.SectionCitation] = rec.SectionHash
		}

		summary.AvgBurdenScore = burdenSum / float64(len(group))
		summary.PartHash = hasher.Part(hashes)
		summaries = append(summaries, summary)
	}

	return summaries
}

// AgencySummaries reduces part summaries to per-agency summaries for the
// same version date. Parts without an agency are grouped under the empty
// name rather than dropped, so totals stay complete. The agency digest uses
// the hasher's (title, part) ordering.
func AgencySummaries(parts []*data.PartSummary) []*data.AgencySummary {
	groups := make(map[string][]*data.PartSummary)
	for _, p := range parts {
		name := ""
		if p.AgencyName != nil {
			name = *p.AgencyName
		}
		groups[name] = append(groups[name], p)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]*data.AgencySummary, 0, len(names))
	for _, name := range names {
		group := groups[name]

		summary := &data.AgencySummary{
			VersionDate: group[0].VersionDate,
			AgencyName:  name,
		}

		hashes := make(map[hasher.PartKey]string, len(group))
		var burdenSum float64
		for _, p := range group {
			summary.PartCount++
			summary.SectionCount += p.SectionCount
			summary.AgencyWordCount += p.PartWordCount
			burdenSum += p.AvgBurdenScore
			hashes[hasher.PartKey{TitleNum: p.TitleNum, PartNum: p.PartNum}] = p.PartHash
		}

		summary.AvgBurdenScore = burdenSum / float64(len(group))
		summary.AgencyHash = hasher.Agency(hashes)
		summaries = append(summaries, summary)
	}

	return summaries
}
