package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rbannon32/lawscan/server/ecfrdata"
)

// PartParser parses the full XML rendering of one CFR part into the
// duck-typed node shape the structure walker consumes. The XML grain varies
// by title era: sections appear as SECTION elements or as DIV8 elements with
// an N attribute, so both are matched, with a dotted-N fallback for renderings
// that use neither.
type PartParser struct {
	titleNumber int
}

// NewPartParser creates a parser for one title's parts.
func NewPartParser(titleNumber int) *PartParser {
	return &PartParser{titleNumber: titleNumber}
}

var reservedMarker = regexp.MustCompile(`(?i)\[\s*reserved\s*\]`)

// Parse extracts the sections of one part from its XML content and returns
// them as children of a synthetic part node.
func (p *PartParser) Parse(xmlContent string, partNum string) (ecfrdata.Node, error) {
	sections, err := p.extractSections(xmlContent, isSectionElement)
	if err != nil {
		return nil, fmt.Errorf("error parsing XML for part %s: %w", partNum, err)
	}

	// Renderings without SECTION/DIV8 tags still mark sections with a
	// dotted N attribute (e.g. N="101.9").
	if len(sections) == 0 {
		sections, err = p.extractSections(xmlContent, isDottedNElement)
		if err != nil {
			return nil, fmt.Errorf("error parsing XML for part %s: %w", partNum, err)
		}
	}

	children := make([]any, 0, len(sections))
	for _, s := range sections {
		children = append(children, s)
	}

	return ecfrdata.Node{
		"type":       "part",
		"identifier": partNum,
		"label":      fmt.Sprintf("Part %s", partNum),
		"children":   children,
	}, nil
}

func isSectionElement(start xml.StartElement) bool {
	name := start.Name.Local
	if name == "SECTION" {
		return true
	}
	return name == "DIV8" && attrValue(start, "N") != ""
}

func isDottedNElement(start xml.StartElement) bool {
	return strings.Contains(attrValue(start, "N"), ".")
}

func (p *PartParser) extractSections(
	xmlContent string,
	match func(xml.StartElement) bool,
) ([]map[string]any, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlContent))
	decoder.Strict = false

	var sections []map[string]any

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok || !match(start) {
			continue
		}

		section, err := p.parseSection(decoder, start)
		if err != nil {
			return nil, err
		}
		if section != nil {
			sections = append(sections, section)
		}
	}

	return sections, nil
}

// parseSection consumes one section element. The section number comes from
// the N attribute or the SECTNO child; SUBJECT/HEAD supply the heading and
// are excluded from the body text.
func (p *PartParser) parseSection(
	decoder *xml.Decoder,
	start xml.StartElement,
) (map[string]any, error) {
	sectionNum := firstAttr(start, "N", "SECTNO", "number", "id")

	var heading string
	var textParts []string

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if end, ok := token.(xml.EndElement); ok && end.Name.Local == start.Name.Local {
			break
		}

		if childStart, ok := token.(xml.StartElement); ok {
			switch childStart.Name.Local {
			case "SECTNO":
				text := p.readElementText(decoder, childStart)
				if sectionNum == "" {
					sectionNum = strings.TrimPrefix(strings.TrimSpace(text), "§ ")
				}
			case "SUBJECT", "HEAD":
				heading = strings.TrimSpace(p.readElementText(decoder, childStart))
			default:
				p.collectText(decoder, childStart, &textParts)
			}
			continue
		}

		if charData, ok := token.(xml.CharData); ok {
			appendText(&textParts, string(charData))
		}
	}

	if sectionNum == "" {
		return nil, nil
	}

	fullText := strings.Join(textParts, " ")
	reserved := reservedMarker.MatchString(heading) || reservedMarker.MatchString(fullText)

	return map[string]any{
		"type":        "section",
		"identifier":  fmt.Sprintf("section-%s", sectionNum),
		"label":       strings.TrimSpace(fmt.Sprintf("§ %s %s", sectionNum, heading)),
		"subject":     heading,
		"text":        fullText,
		"section_num": sectionNum,
		"reserved":    reserved,
	}, nil
}

// collectText recursively gathers character data under an element.
func (p *PartParser) collectText(
	decoder *xml.Decoder,
	start xml.StartElement,
	textParts *[]string,
) {
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}

		if end, ok := token.(xml.EndElement); ok && end.Name.Local == start.Name.Local {
			return
		}

		if childStart, ok := token.(xml.StartElement); ok {
			p.collectText(decoder, childStart, textParts)
		}

		if charData, ok := token.(xml.CharData); ok {
			appendText(textParts, string(charData))
		}
	}
}

// readElementText returns the flattened character data of an element.
func (p *PartParser) readElementText(decoder *xml.Decoder, start xml.StartElement) string {
	var parts []string
	p.collectText(decoder, start, &parts)
	return strings.Join(parts, " ")
}

func appendText(parts *[]string, s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		*parts = append(*parts, s)
	}
}

func attrValue(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func firstAttr(start xml.StartElement, names ...string) string {
	for _, name := range names {
		if v := attrValue(start, name); v != "" {
			return v
		}
	}
	return ""
}
