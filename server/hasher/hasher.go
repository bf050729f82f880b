package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Section returns the hex SHA-256 digest of a section's normalized text.
// Because the input is normalized, the digest is stable under cosmetic
// upstream re-renderings and sensitive to any other text change.
func Section(normalizedText string) string {
	sum := sha256.Sum256([]byte(normalizedText))
	return hex.EncodeToString(sum[:])
}

// Aggregate digests an ordered list of child digests by hashing their
// concatenation. Callers fix the order before calling; the order must be
// content-independent so parent digests ignore spurious reordering.
func Aggregate(orderedHashes []string) string {
	h := sha256.New()
	for _, child := range orderedHashes {
		h.Write([]byte(child))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Part derives a part-level digest from section digests keyed by citation.
// Children are ordered by citation ascending, not document order, so the
// part digest ignores section reordering while still propagating any section
// content change.
func Part(hashesByCitation map[string]string) string {
	citations := make([]string, 0, len(hashesByCitation))
	for c := range hashesByCitation {
		citations = append(citations, c)
	}
	sort.Strings(citations)

	ordered := make([]string, len(citations))
	for i, c := range citations {
		ordered[i] = hashesByCitation[c]
	}
	return Aggregate(ordered)
}

// PartKey identifies one part for agency-level aggregation.
type PartKey struct {
	TitleNum int
	PartNum  string
}

// Agency derives an agency-level digest from part digests, ordered by
// (title_num, part_num). Any single section change propagates through its
// part digest into the agency digest.
func Agency(hashesByPart map[PartKey]string) string {
	keys := make([]PartKey, 0, len(hashesByPart))
	for k := range hashesByPart {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TitleNum != keys[j].TitleNum {
			return keys[i].TitleNum < keys[j].TitleNum
		}
		return PartNumLess(keys[i].PartNum, keys[j].PartNum)
	})

	ordered := make([]string, len(keys))
	for i, k := range keys {
		ordered[i] = hashesByPart[k]
	}
	return Aggregate(ordered)
}

// PartNumLess orders part numbers numerically by their integer prefix, then
// lexically by any suffix ("2" before "10", "101" before "101a").
func PartNumLess(a, b string) bool {
	ai, as := splitNum(a)
	bi, bs := splitNum(b)
	if ai != bi {
		return ai < bi
	}
	return as < bs
}

func splitNum(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 1 << 30, strings.ToLower(s)
	}
	n, _ := strconv.Atoi(s[:i])
	return n, strings.ToLower(s[i:])
}
