package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionDeterministic(t *testing.T) {
	a := Section("The label shall state the net quantity.")
	b := Section("The label shall state the net quantity.")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Section("The label shall state the gross quantity."))
}

func TestSectionEmptyText(t *testing.T) {
	// Reserved sections hash their empty normalized text; the digest must
	// still be stable and non-empty.
	assert.Len(t, Section(""), 64)
	assert.Equal(t, Section(""), Section(""))
}

func TestAggregateOrderSensitive(t *testing.T) {
	ab := Aggregate([]string{"aa", "bb"})
	ba := Aggregate([]string{"bb", "aa"})

	assert.NotEqual(t, ab, ba)
	assert.Equal(t, ab, Aggregate([]string{"aa", "bb"}))
}

func TestPartIgnoresInsertionOrder(t *testing.T) {
	h1 := Section("first")
	h2 := Section("second")

	a := Part(map[string]string{"21 CFR § 101.1": h1, "21 CFR § 101.9": h2})
	b := Part(map[string]string{"21 CFR § 101.9": h2, "21 CFR § 101.1": h1})

	assert.Equal(t, a, b)
	assert.Equal(t, Aggregate([]string{h1, h2}), a)
}

func TestPartPropagatesSectionChange(t *testing.T) {
	base := map[string]string{
		"21 CFR § 101.1": Section("one"),
		"21 CFR § 101.9": Section("two"),
	}
	changed := map[string]string{
		"21 CFR § 101.1": Section("one"),
		"21 CFR § 101.9": Section("two amended"),
	}

	assert.NotEqual(t, Part(base), Part(changed))
}

func TestAgencyOrdersByTitleThenPart(t *testing.T) {
	hashes := map[PartKey]string{
		{TitleNum: 21, PartNum: "101"}: "h1",
		{TitleNum: 21, PartNum: "2"}:   "h2",
		{TitleNum: 7, PartNum: "500"}:  "h3",
	}

	// title 7 first, then title 21 with part 2 before 101.
	assert.Equal(t, Aggregate([]string{"h3", "h2", "h1"}), Agency(hashes))
}

func TestAgencyPropagatesPartChange(t *testing.T) {
	a := Agency(map[PartKey]string{{TitleNum: 21, PartNum: "101"}: "x"})
	b := Agency(map[PartKey]string{{TitleNum: 21, PartNum: "101"}: "y"})

	assert.NotEqual(t, a, b)
}

func TestPartNumLess(t *testing.T) {
	assert.True(t, PartNumLess("2", "10"))
	assert.False(t, PartNumLess("10", "2"))
	assert.True(t, PartNumLess("101", "101a"))
	assert.True(t, PartNumLess("101a", "101b"))
	assert.False(t, PartNumLess("101", "101"))

	// Non-numeric part numbers sort after numeric ones.
	assert.True(t, PartNumLess("500", "Appendix"))
}
