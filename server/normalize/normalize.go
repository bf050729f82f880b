package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/ecfrdata"
	"github.com/rbannon32/lawscan/server/walker"
)

// Citation builds the canonical citation string for a section. This is the
// natural key for diffing, so its format never varies.
func Citation(titleNum int, sectionNum string) string {
	return fmt.Sprintf("%d CFR § %s", titleNum, sectionNum)
}

var (
	whitespace     = regexp.MustCompile(`\s+`)
	sectionLabel   = regexp.MustCompile(`^\s*§\s*([0-9A-Za-z.\-]+)\s*(.*)$`)
	pageArtifacts  = regexp.MustCompile(`\[\s*\d+\s+FR\s+\d+[^\]]*\]`)
	quoteDashFolds = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
		" ", " ",
	)
)

// Text canonicalizes section text for hashing: redundant whitespace is
// collapsed, curly quotes and long dashes are unified, and Federal Register
// page artifacts are dropped. Case is preserved; citations and defined terms
// are case-significant in legal text.
func Text(s string) string {
	s = quoteDashFolds.Replace(s)
	s = pageArtifacts.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// SectionFields extracts the section number and heading from a section node,
// whichever of the XML-parsed or structure-JSON shapes it carries.
func SectionFields(node ecfrdata.Node) (sectionNum, heading string) {
	if num, ok := node["section_num"].(string); ok && num != "" {
		return num, node.LabelDescription()
	}

	label := node.Label()
	if m := sectionLabel.FindStringSubmatch(label); m != nil {
		heading = strings.TrimSpace(m[2])
		if h := node.LabelDescription(); h != "" {
			heading = h
		}
		return m[1], heading
	}

	return walker.ExtractNum(node.Identifier()), node.LabelDescription()
}

// SectionText returns the raw body text of a section node. XML-parsed nodes
// carry it directly; structure-JSON nodes get a depth-first string collection
// over the known content keys, excluding citation labels.
func SectionText(node ecfrdata.Node) string {
	if text, ok := node["text"].(string); ok {
		return text
	}

	var chunks []string
	collectStrings(node, &chunks)

	var kept []string
	for _, c := range chunks {
		if !strings.HasPrefix(strings.TrimSpace(c), "§") {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, "\n")
}

var contentKeys = []string{"text", "content_text", "P", "paragraph", "subject", "title"}
var containerKeys = []string{"content", "children", "subsections", "paragraphs", "notes"}

func collectStrings(v any, acc *[]string) {
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			*acc = append(*acc, s)
		}
	case []any:
		for _, e := range x {
			collectStrings(e, acc)
		}
	case map[string]any:
		for _, k := range contentKeys {
			if s, ok := x[k].(string); ok {
				collectStrings(s, acc)
			}
		}
		for _, k := range containerKeys {
			if c, ok := x[k]; ok {
				collectStrings(c, acc)
			}
		}
	case ecfrdata.Node:
		collectStrings(map[string]any(x), acc)
	}
}

// TitleContext identifies the snapshot a record belongs to.
type TitleContext struct {
	TitleNum    int
	TitleName   string
	VersionDate time.Time
	SnapshotTs  time.Time
}

// Record converts one walked leaf into a SectionRecord skeleton: identity,
// hierarchy labels, content, and ordering. Metrics and the content hash are
// filled in by later stages. A leaf with no recoverable section number
// returns nil.
func Record(leaf walker.Leaf, tc TitleContext) *data.SectionRecord {
	sectionNum, heading := SectionFields(leaf.Node)
	if sectionNum == "" {
		return nil
	}

	rawText := SectionText(leaf.Node)
	reserved := leaf.Node.IsReserved()
	if reserved {
		rawText = ""
	}

	rec := &data.SectionRecord{
		VersionDate:     tc.VersionDate,
		SnapshotTs:      tc.SnapshotTs,
		TitleNum:        tc.TitleNum,
		TitleName:       tc.TitleName,
		ChapterLabel:    leaf.Ancestors.ChapterLabel,
		SubchapterLabel: leaf.Ancestors.SubchapterLabel,
		SubpartLabel:    leaf.Ancestors.SubpartLabel,
		PartNum:         leaf.Ancestors.PartNum,
		PartLabel:       leaf.Ancestors.PartLabel,
		SectionNum:      sectionNum,
		SectionCitation: Citation(tc.TitleNum, sectionNum),
		SectionHeading:  heading,
		SectionText:     rawText,
		NormalizedText:  Text(rawText),
		Reserved:        reserved,
		PartOrder:       leaf.Ancestors.PartOrder,
		SectionOrder:    leaf.SectionOrder,
	}

	if leaf.Ancestors.ChapterLabel != nil {
		if agency := walker.ExtractAgency(*leaf.Ancestors.ChapterLabel); agency != "" {
			rec.AgencyName = &agency
		}
	}

	return rec
}
