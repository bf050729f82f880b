package walker

import (
	"testing"

	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/ecfrdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(num, label string) map[string]any {
	return map[string]any{
		"type":       "section",
		"identifier": "section-" + num,
		"label":      label,
	}
}

func sampleTitle() ecfrdata.Node {
	return ecfrdata.Node{
		"type":       "title",
		"identifier": "title-21",
		"children": []any{
			map[string]any{
				"type":  "chapter",
				"label": "CHAPTER I—FOOD AND DRUG ADMINISTRATION, DEPARTMENT OF HEALTH AND HUMAN SERVICES",
				"children": []any{
					map[string]any{
						"type":       "part",
						"identifier": "part-101",
						"label":      "Part 101 - Food Labeling",
						"children": []any{
							section("101.1", "§ 101.1 Principal display panel."),
							map[string]any{
								"type":  "subpart",
								"label": "Subpart B - Specific Requirements",
								"children": []any{
									section("101.9", "§ 101.9 Nutrition labeling."),
								},
							},
						},
					},
					map[string]any{
						"type":       "part",
						"identifier": "part-102",
						"label":      "Part 102 - Common Names",
						"children": []any{
							section("102.5", "§ 102.5 General principles."),
						},
					},
				},
			},
		},
	}
}

func TestWalkVisitsSectionsInDocumentOrder(t *testing.T) {
	leaves, err := Sections(sampleTitle())
	require.NoError(t, err)
	require.Len(t, leaves, 3)

	assert.Equal(t, "section-101.1", leaves[0].Node.Identifier())
	assert.Equal(t, "section-101.9", leaves[1].Node.Identifier())
	assert.Equal(t, "section-102.5", leaves[2].Node.Identifier())

	for i, leaf := range leaves {
		assert.Equal(t, i+1, leaf.SectionOrder)
	}
}

func TestWalkInheritsAncestorLabels(t *testing.T) {
	leaves, err := Sections(sampleTitle())
	require.NoError(t, err)

	first := leaves[0].Ancestors
	require.NotNil(t, first.ChapterLabel)
	assert.Contains(t, *first.ChapterLabel, "FOOD AND DRUG ADMINISTRATION")
	assert.Equal(t, "101", first.PartNum)
	assert.Equal(t, 1, first.PartOrder)
	assert.Nil(t, first.SubpartLabel)

	nested := leaves[1].Ancestors
	require.NotNil(t, nested.SubpartLabel)
	assert.Equal(t, "Subpart B - Specific Requirements", *nested.SubpartLabel)
	assert.Equal(t, "101", nested.PartNum)

	sibling := leaves[2].Ancestors
	assert.Equal(t, "102", sibling.PartNum)
	assert.Equal(t, 2, sibling.PartOrder)
	// The subpart label belongs to part 101 only; part 102 must not inherit it.
	assert.Nil(t, sibling.SubpartLabel)
}

func TestWalkEmptyTitle(t *testing.T) {
	empty := ecfrdata.Node{"type": "title", "children": []any{}}
	_, err := Sections(empty)
	assert.ErrorIs(t, err, data.ErrEmptyTitle)

	_, err = Sections(nil)
	assert.ErrorIs(t, err, data.ErrTitleNotFound)
}

func TestWalkSkipsUnclassifiableNodes(t *testing.T) {
	root := ecfrdata.Node{
		"type": "title",
		"children": []any{
			map[string]any{"identifier": "appendix-A"},
			section("1.1", "§ 1.1 Scope."),
		},
	}

	leaves, err := Sections(root)
	require.NoError(t, err)
	assert.Len(t, leaves, 1)
}

func TestEnumerateParts(t *testing.T) {
	parts := EnumerateParts(sampleTitle())
	require.Len(t, parts, 2)

	assert.Equal(t, "101", parts[0].PartNum)
	assert.Equal(t, 1, parts[0].PartOrder)
	assert.Equal(t, 2, parts[0].SectionCount)
	require.NotNil(t, parts[0].ChapterLabel)

	assert.Equal(t, "102", parts[1].PartNum)
	assert.Equal(t, 2, parts[1].PartOrder)
	assert.Equal(t, 1, parts[1].SectionCount)
}

func TestEnumeratePartsReserved(t *testing.T) {
	root := ecfrdata.Node{
		"type": "title",
		"children": []any{
			map[string]any{
				"type":       "part",
				"identifier": "part-50",
				"label":      "Part 50 [Reserved]",
			},
		},
	}

	parts := EnumerateParts(root)
	require.Len(t, parts, 1)
	assert.True(t, parts[0].Reserved)
	assert.Equal(t, 0, parts[0].SectionCount)
}

func TestExtractNum(t *testing.T) {
	assert.Equal(t, "101", ExtractNum("part-101"))
	assert.Equal(t, "101.9", ExtractNum("section-101.9"))
	assert.Equal(t, "1240", ExtractNum("Part 1240 - Control of Communicable Diseases"))
	assert.Equal(t, "", ExtractNum("appendix"))
}

func TestExtractAgency(t *testing.T) {
	assert.Equal(t,
		"FOOD AND DRUG ADMINISTRATION",
		ExtractAgency("CHAPTER I—FOOD AND DRUG ADMINISTRATION, DEPARTMENT OF HEALTH AND HUMAN SERVICES"))
	assert.Equal(t,
		"ENVIRONMENTAL PROTECTION AGENCY",
		ExtractAgency("CHAPTER I - ENVIRONMENTAL PROTECTION AGENCY"))
	assert.Equal(t, "", ExtractAgency(""))
}
