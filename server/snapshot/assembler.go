package snapshot

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/hasher"
	"github.com/rbannon32/lawscan/server/metrics"
	"github.com/rbannon32/lawscan/server/normalize"
	"github.com/rbannon32/lawscan/server/walker"
)

// Assembler turns walked leaves into the complete SectionRecord set for one
// (title, version date): normalization, metrics, and content hash applied,
// with exactly one record per citation.
type Assembler struct {
	Extractor *metrics.Extractor
}

func NewAssembler(extractor *metrics.Extractor) *Assembler {
	return &Assembler{Extractor: extractor}
}

// Assemble builds records in document order. When two leaves normalize to
// the same citation, document order decides: the first is kept and the later
// one is dropped with a warning. Upstream document order is itself not
// guaranteed stable, so this resolution inherits that fragility.
func (a *Assembler) Assemble(
	tc normalize.TitleContext,
	leaves []walker.Leaf,
) []*data.SectionRecord {
	records := make([]*data.SectionRecord, 0, len(leaves))
	seen := make(map[string]int, len(leaves))

	for _, leaf := range leaves {
		rec := normalize.Record(leaf, tc)
		if rec == nil {
			log.Warn(fmt.Sprintf("Snapshot Assembly: leaf without section number skipped (title %d, label %q)",
				tc.TitleNum, leaf.Node.Label()))
			continue
		}

		if firstOrder, dup := seen[rec.SectionCitation]; dup {
			log.Warn(fmt.Sprintf("Snapshot Assembly: duplicate citation %s at order %d dropped (first seen at order %d)",
				rec.SectionCitation, rec.SectionOrder, firstOrder))
			continue
		}
		seen[rec.SectionCitation] = rec.SectionOrder

		a.finish(rec)
		records = append(records, rec)
	}

	return records
}

func (a *Assembler) finish(rec *data.SectionRecord) {
	bundle := a.Extractor.Extract(rec.NormalizedText)

	rec.WordCount = bundle.WordCount
	rec.ObligationCount = bundle.ObligationCount
	rec.ProhibitionCount = bundle.ProhibitionCount
	rec.RequirementCount = bundle.RequirementCount
	rec.ExceptionCount = bundle.ExceptionCount
	rec.EnforcementCount = bundle.EnforcementCount
	rec.SentenceCount = bundle.SentenceCount
	rec.AvgSentenceLength = bundle.AvgSentenceLength
	rec.DollarMentions = bundle.DollarMentions
	rec.TemporalReferences = bundle.TemporalReferences
	rec.CrossrefDensityPer1k = bundle.CrossrefDensityPer1k
	rec.RegulatoryBurdenScore = bundle.BurdenScore

	rec.SectionHash = hasher.Section(rec.NormalizedText)
}
