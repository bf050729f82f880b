package walker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/ecfrdata"
)

// Ancestors carries the hierarchy labels resolved at the time a leaf is
// visited. A level that supplies no label inherits the nearest ancestor's
// value unchanged; nothing is fabricated.
type Ancestors struct {
	ChapterLabel    *string
	SubchapterLabel *string
	SubpartLabel    *string
	PartNum         string
	PartLabel       *string
	PartOrder       int
}

// Leaf is one section node paired with its resolved ancestor chain and its
// stable document-order rank within the walk.
type Leaf struct {
	Node         ecfrdata.Node
	Ancestors    Ancestors
	SectionOrder int
}

// numPattern pulls a part or section number out of identifiers like
// "part-101", "section-101.9", or labels like "Part 101 - Food Labeling".
var numPattern = regexp.MustCompile(`(\d+[A-Za-z0-9.\-]*)`)

// ExtractNum returns the first number-like token in s, or "".
func ExtractNum(s string) string {
	return numPattern.FindString(s)
}

// Walk traverses a title structure tree depth-first and calls visit for each
// section leaf in document order. Reserved sections are still visited so that
// ordering and diffing stay contiguous. Nodes that classify as neither
// container nor section are logged and skipped; a walk that visits no leaves
// returns data.ErrEmptyTitle.
func Walk(root ecfrdata.Node, visit func(Leaf) error) error {
	if root == nil {
		return data.ErrTitleNotFound
	}

	var order int
	var partOrder int

	var walk func(n ecfrdata.Node, anc Ancestors) error
	walk = func(n ecfrdata.Node, anc Ancestors) error {
		switch n.Type() {
		case ecfrdata.NodeTypeChapter:
			if label := n.Label(); label != "" {
				anc.ChapterLabel = &label
			}
		case ecfrdata.NodeTypeSubchapter:
			if label := n.Label(); label != "" {
				anc.SubchapterLabel = &label
			}
		case ecfrdata.NodeTypeSubpart:
			if label := n.Label(); label != "" {
				anc.SubpartLabel = &label
			}
		case ecfrdata.NodeTypePart:
			partOrder++
			anc.PartOrder = partOrder
			anc.PartNum = partNumOf(n)
			if label := n.Label(); label != "" {
				anc.PartLabel = &label
			}
		}

		if n.IsSection() {
			order++
			return visit(Leaf{Node: n, Ancestors: anc, SectionOrder: order})
		}

		children := n.Children()
		if len(children) == 0 && n.Type() == "" {
			// Neither a recognized container nor section-shaped. A known
			// upstream inconsistency; skip without aborting the walk.
			log.Warn(fmt.Sprintf("Structure Walk: unclassifiable node skipped (identifier=%q label=%q)",
				n.Identifier(), n.Label()))
			return nil
		}

		for _, c := range children {
			if err := walk(c, anc); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, Ancestors{}); err != nil {
		return err
	}

	if order == 0 {
		return data.ErrEmptyTitle
	}
	return nil
}

// Sections collects the leaves of a walk into a slice.
func Sections(root ecfrdata.Node) ([]Leaf, error) {
	var leaves []Leaf
	err := Walk(root, func(l Leaf) error {
		leaves = append(leaves, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

// PartRef identifies one part discovered in a title structure, with the
// labels inherited from its ancestors and its document-order rank.
type PartRef struct {
	PartNum         string
	PartLabel       *string
	ChapterLabel    *string
	SubchapterLabel *string
	PartOrder       int
	Reserved        bool
	SectionCount    int
}

// EnumerateParts walks a title structure and returns its parts in document
// order. Parts without a recoverable part number are dropped.
func EnumerateParts(root ecfrdata.Node) []PartRef {
	var parts []PartRef
	order := 0

	var walk func(n ecfrdata.Node, chapterLabel, subchapterLabel *string)
	walk = func(n ecfrdata.Node, chapterLabel, subchapterLabel *string) {
		switch n.Type() {
		case ecfrdata.NodeTypeChapter:
			if label := n.Label(); label != "" {
				chapterLabel = &label
			}
		case ecfrdata.NodeTypeSubchapter:
			if label := n.Label(); label != "" {
				subchapterLabel = &label
			}
		case ecfrdata.NodeTypePart:
			order++
			num := partNumOf(n)
			if num == "" {
				log.Warn(fmt.Sprintf("Structure Walk: part without number skipped (label=%q)", n.Label()))
			} else {
				ref := PartRef{
					PartNum:         num,
					ChapterLabel:    chapterLabel,
					SubchapterLabel: subchapterLabel,
					PartOrder:       order,
					Reserved:        n.IsReserved(),
					SectionCount:    countSections(n),
				}
				if label := n.Label(); label != "" {
					ref.PartLabel = &label
				}
				parts = append(parts, ref)
			}
		}

		for _, c := range n.Children() {
			walk(c, chapterLabel, subchapterLabel)
		}
	}

	if root != nil {
		walk(root, nil, nil)
	}
	return parts
}

func countSections(n ecfrdata.Node) int {
	count := 0
	var walk func(n ecfrdata.Node)
	walk = func(n ecfrdata.Node) {
		if n.IsSection() {
			count++
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, c := range n.Children() {
		walk(c)
	}
	return count
}

func partNumOf(n ecfrdata.Node) string {
	if s, ok := n["part"].(string); ok && s != "" {
		return s
	}
	if num := ExtractNum(n.Identifier()); num != "" {
		return num
	}
	return ExtractNum(n.Label())
}

var chapterPrefix = regexp.MustCompile(`(?i)CHAPTER\s+[IVXLC]+\s*[—–-]\s*`)

// ExtractAgency derives an agency name from a chapter label like
// "CHAPTER I—FOOD AND DRUG ADMINISTRATION, DEPARTMENT OF HEALTH AND HUMAN
// SERVICES". The portion before the first comma is kept for readability.
func ExtractAgency(chapterLabel string) string {
	if chapterLabel == "" {
		return ""
	}
	s := strings.TrimSpace(chapterPrefix.ReplaceAllString(chapterLabel, ""))
	if i := strings.Index(s, ","); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return chapterLabel
	}
	return s
}
