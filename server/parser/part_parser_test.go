package parser

import (
	"testing"

	"github.com/rbannon32/lawscan/server/ecfrdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionStyleXML = `
<DIV5 N="101" TYPE="PART">
  <HEAD>PART 101—FOOD LABELING</HEAD>
  <SECTION>
    <SECTNO>§ 101.1</SECTNO>
    <SUBJECT>Principal display panel.</SUBJECT>
    <P>The principal display panel shall be large enough.</P>
    <P>Alternate panels may be used.</P>
  </SECTION>
  <SECTION>
    <SECTNO>§ 101.5</SECTNO>
    <SUBJECT>[Reserved]</SUBJECT>
  </SECTION>
</DIV5>`

const div8StyleXML = `
<DIV5 N="101" TYPE="PART">
  <DIV8 N="101.9" TYPE="SECTION">
    <HEAD>§ 101.9 Nutrition labeling of food.</HEAD>
    <P>Nutrition information shall be provided for all foods.</P>
  </DIV8>
</DIV5>`

const dottedNStyleXML = `
<PART N="70">
  <ITEM N="70.1">
    <HEAD>Applicability.</HEAD>
    <P>This part applies to color additives.</P>
  </ITEM>
</PART>`

func sectionsOf(t *testing.T, node ecfrdata.Node) []ecfrdata.Node {
	t.Helper()
	children := node.Children()
	require.NotEmpty(t, children)
	return children
}

func TestParseSectionElements(t *testing.T) {
	node, err := NewPartParser(21).Parse(sectionStyleXML, "101")
	require.NoError(t, err)

	assert.Equal(t, ecfrdata.NodeTypePart, node.Type())
	assert.Equal(t, "101", node.Identifier())

	sections := sectionsOf(t, node)
	require.Len(t, sections, 2)

	first := sections[0]
	assert.True(t, first.IsSection())
	assert.Equal(t, "101.1", first["section_num"])
	assert.Equal(t, "Principal display panel.", first["subject"])
	assert.Contains(t, first["text"], "shall be large enough")
	assert.Contains(t, first["text"], "Alternate panels")
	assert.Equal(t, false, first["reserved"])
}

func TestParseMarksReservedSections(t *testing.T) {
	node, err := NewPartParser(21).Parse(sectionStyleXML, "101")
	require.NoError(t, err)

	sections := sectionsOf(t, node)
	require.Len(t, sections, 2)
	assert.Equal(t, "101.5", sections[1]["section_num"])
	assert.Equal(t, true, sections[1]["reserved"])
	assert.True(t, sections[1].IsReserved())
}

func TestParseDIV8Elements(t *testing.T) {
	node, err := NewPartParser(21).Parse(div8StyleXML, "101")
	require.NoError(t, err)

	sections := sectionsOf(t, node)
	require.Len(t, sections, 1)
	assert.Equal(t, "101.9", sections[0]["section_num"])
	assert.Contains(t, sections[0]["text"], "Nutrition information")
}

func TestParseDottedNFallback(t *testing.T) {
	node, err := NewPartParser(21).Parse(dottedNStyleXML, "70")
	require.NoError(t, err)

	sections := sectionsOf(t, node)
	require.Len(t, sections, 1)
	assert.Equal(t, "70.1", sections[0]["section_num"])
	assert.Contains(t, sections[0]["text"], "color additives")
}

func TestParseEmptyPart(t *testing.T) {
	node, err := NewPartParser(21).Parse(`<DIV5 N="50"><HEAD>PART 50 [RESERVED]</HEAD></DIV5>`, "50")
	require.NoError(t, err)

	assert.Empty(t, node.Children())
}

func TestParseAttrNumberWinsOverSectno(t *testing.T) {
	xml := `<SECTION N="9.1"><SECTNO>§ 9.2</SECTNO><P>Body.</P></SECTION>`
	node, err := NewPartParser(9).Parse(xml, "9")
	require.NoError(t, err)

	sections := sectionsOf(t, node)
	require.Len(t, sections, 1)
	assert.Equal(t, "9.1", sections[0]["section_num"])
}

func TestParseSectionWithoutNumberIsDropped(t *testing.T) {
	xml := `<SECTION><SUBJECT>Orphan heading.</SUBJECT><P>Body.</P></SECTION>`
	node, err := NewPartParser(9).Parse(xml, "9")
	require.NoError(t, err)

	assert.Empty(t, node.Children())
}
