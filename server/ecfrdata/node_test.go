package ecfrdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeFromExplicitTag(t *testing.T) {
	assert.Equal(t, NodeTypeSection, Node{"type": "section"}.Type())
	assert.Equal(t, NodeTypePart, Node{"node_type": "PART"}.Type())
	assert.Equal(t, NodeTypeChapter, Node{"nodeType": "Chapter"}.Type())
	assert.Equal(t, NodeTypeSubpart, Node{"kind": "subpart"}.Type())
}

func TestTypeInferredFromIdentifier(t *testing.T) {
	assert.Equal(t, NodeTypeSection, Node{"identifier": "section-101.1"}.Type())
	assert.Equal(t, NodeTypePart, Node{"identifier": "part-101"}.Type())
	assert.Equal(t, NodeTypeChapter, Node{"identifier": "chapter-I"}.Type())

	// "subpart-A" contains "part"; the subpart check must win.
	assert.Equal(t, NodeTypeSubpart, Node{"identifier": "subpart-A"}.Type())
	assert.Equal(t, NodeTypeSubchapter, Node{"identifier": "subchapter-B"}.Type())
}

func TestTypeInferredFromLabel(t *testing.T) {
	assert.Equal(t, NodeTypeSection, Node{"label": "§ 101.1 Scope."}.Type())
	assert.Equal(t, NodeTypePart, Node{"label": "Part 101 - Food Labeling"}.Type())
	assert.Equal(t, "", Node{"label": "Appendix A"}.Type())
}

func TestChildrenProbesContainerKeys(t *testing.T) {
	child := map[string]any{"identifier": "part-101"}

	for _, key := range []string{"children", "content", "nodes", "subchapters", "subparts"} {
		n := Node{key: []any{child, "not a node"}}
		got := n.Children()
		assert.Len(t, got, 1, "key %s", key)
		assert.Equal(t, "part-101", got[0].Identifier())
	}

	assert.Empty(t, Node{"children": "wrong shape"}.Children())
}

func TestIsSection(t *testing.T) {
	assert.True(t, Node{"type": "SECTION"}.IsSection())
	assert.True(t, Node{"label": "§ 101.1 Scope."}.IsSection())
	assert.True(t, Node{"identifier": "section-101.1"}.IsSection())
	assert.False(t, Node{"identifier": "part-101"}.IsSection())
}

func TestIsReserved(t *testing.T) {
	assert.True(t, Node{"reserved": true}.IsReserved())
	assert.False(t, Node{"reserved": false, "label": "[Reserved]"}.IsReserved())
	assert.True(t, Node{"label": "§ 101.5 [Reserved]"}.IsReserved())
	assert.False(t, Node{"label": "§ 101.5 Scope."}.IsReserved())
}

func TestStringProbeFallbacks(t *testing.T) {
	assert.Equal(t, "cite", Node{"citation": "cite"}.Identifier())
	assert.Equal(t, "lbl", Node{"label_text": "lbl"}.Label())
	assert.Equal(t, "Scope.", Node{"subject": "Scope."}.LabelDescription())
	assert.Equal(t, "", Node{}.Label())
}
