package ecfrdata

import (
	"strings"
)

// Node is one element of the eCFR structure JSON. The upstream schema is not
// stable: the type tag and child-list field are named differently depending
// on node kind and API era, so Node stays map-backed and callers classify it
// through a small set of capability probes instead of a strict schema.
type Node map[string]any

// Node type constants as reported (or inferred) from the structure API.
const (
	NodeTypeTitle      = "TITLE"
	NodeTypeChapter    = "CHAPTER"
	NodeTypeSubchapter = "SUBCHAPTER"
	NodeTypePart       = "PART"
	NodeTypeSubpart    = "SUBPART"
	NodeTypeSection    = "SECTION"
)

// typeKeys are checked in priority order; upstream has shipped all of these
// spellings at one point or another.
var typeKeys = []string{"type", "node_type", "nodeType", "nodetype", "kind"}

// childKeys are the container fields a node may nest its children under.
var childKeys = []string{"children", "content", "nodes", "subchapters", "subparts"}

// Type classifies the node. The explicit type tag wins; when absent the
// identifier and label are probed for section/part/chapter shapes. An empty
// string means the node could not be classified.
func (n Node) Type() string {
	for _, k := range typeKeys {
		if s, ok := n[k].(string); ok && s != "" {
			return strings.ToUpper(s)
		}
	}

	ident := strings.ToLower(n.Identifier())
	label := strings.ToLower(n.Label())
	switch {
	case strings.Contains(ident, "section") || strings.HasPrefix(label, "§"):
		return NodeTypeSection
	case strings.Contains(ident, "subchapter") || strings.HasPrefix(label, "subchapter "):
		return NodeTypeSubchapter
	case strings.Contains(ident, "subpart") || strings.HasPrefix(label, "subpart "):
		return NodeTypeSubpart
	case strings.Contains(ident, "part") || strings.HasPrefix(label, "part "):
		return NodeTypePart
	case strings.Contains(ident, "chapter") || strings.HasPrefix(label, "chapter "):
		return NodeTypeChapter
	}
	return ""
}

// Children returns the node's child nodes, probing the known container
// fields. Non-map children are skipped.
func (n Node) Children() []Node {
	var out []Node
	for _, k := range childKeys {
		list, ok := n[k].([]any)
		if !ok {
			continue
		}
		for _, c := range list {
			if m, ok := c.(map[string]any); ok {
				out = append(out, Node(m))
			}
		}
	}
	return out
}

// IsSection reports whether the node looks like a leaf section: either the
// type probe says so, or the label/identifier carry section markers.
func (n Node) IsSection() bool {
	if n.Type() == NodeTypeSection {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(n.Label()), "§") ||
		strings.HasPrefix(n.Identifier(), "section-")
}

// IsReserved reports whether the node is an explicitly reserved placeholder.
func (n Node) IsReserved() bool {
	if b, ok := n["reserved"].(bool); ok {
		return b
	}
	return strings.Contains(strings.ToLower(n.Label()), "[reserved]")
}

// Identifier returns the node's identifier, falling back to the citation
// field some responses use instead.
func (n Node) Identifier() string {
	return n.str("identifier", "citation")
}

// Label returns the node's human label, probing the label spellings the
// source has used.
func (n Node) Label() string {
	return n.str("label", "label_text", "title")
}

// LabelDescription returns the descriptive part of the label when the source
// splits it out, else the empty string.
func (n Node) LabelDescription() string {
	return n.str("label_description", "subject")
}

func (n Node) str(keys ...string) string {
	for _, k := range keys {
		if s, ok := n[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
