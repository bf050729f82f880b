package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// Bundle is the metrics computed for one section's normalized text.
type Bundle struct {
	WordCount            int
	ObligationCount      int
	ProhibitionCount     int
	RequirementCount     int
	ExceptionCount       int
	EnforcementCount     int
	SentenceCount        int
	AvgSentenceLength    float64
	DollarMentions       int
	TemporalReferences   int
	CrossrefDensityPer1k float64
	BurdenScore          float64
}

// Extractor computes lexical and regulatory metrics from section text. It is
// a pure function of its input: same text in, same bundle out.
type Extractor struct {
	cfg         Config
	obligation  *regexp.Regexp
	prohibition *regexp.Regexp
	requirement *regexp.Regexp
	exception   *regexp.Regexp
	enforcement *regexp.Regexp
}

var (
	crossref  = regexp.MustCompile(`§|\bCFR\b|\bU\.S\.C\.|\bUSC\b`)
	dollars   = regexp.MustCompile(`\$[\d,]+`)
	temporal  = regexp.MustCompile(`(?i)\b(\d+\s+(day|week|month|year)s?|within\s+\d+|before\s+\d+|after\s+\d+)\b`)
	sentences = regexp.MustCompile(`[.!?]+`)
)

// NewExtractor compiles the lexicons into token-boundary matchers. Multi-word
// terms are matched as phrases; matching is case-insensitive and
// non-overlapping within a lexicon.
func NewExtractor(cfg Config) (*Extractor, error) {
	e := &Extractor{cfg: cfg}

	var err error
	if e.obligation, err = compileLexicon(cfg.ObligationTerms); err != nil {
		return nil, err
	}
	if e.prohibition, err = compileLexicon(cfg.ProhibitionTerms); err != nil {
		return nil, err
	}
	if e.requirement, err = compileLexicon(cfg.RequirementTerms); err != nil {
		return nil, err
	}
	if e.exception, err = compileLexicon(cfg.ExceptionTerms); err != nil {
		return nil, err
	}
	if e.enforcement, err = compileLexicon(cfg.EnforcementTerms); err != nil {
		return nil, err
	}

	return e, nil
}

func compileLexicon(terms []string) (*regexp.Regexp, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		// Phrase terms match across any run of whitespace.
		parts := strings.Fields(regexp.QuoteMeta(t))
		quoted = append(quoted, strings.Join(parts, `\s+`))
	}
	if len(quoted) == 0 {
		return nil, nil
	}

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("error compiling lexicon: %w", err)
	}
	return re, nil
}

func countMatches(re *regexp.Regexp, s string) int {
	if re == nil || s == "" {
		return 0
	}
	return len(re.FindAllStringIndex(s, -1))
}

// Extract computes the full metrics bundle for one normalized section text.
// Empty text yields the zero bundle; density guards against division by zero.
func (e *Extractor) Extract(text string) Bundle {
	if strings.TrimSpace(text) == "" {
		return Bundle{}
	}

	b := Bundle{
		WordCount:          len(strings.Fields(text)),
		ObligationCount:    countMatches(e.obligation, text),
		ProhibitionCount:   countMatches(e.prohibition, text),
		RequirementCount:   countMatches(e.requirement, text),
		ExceptionCount:     countMatches(e.exception, text),
		EnforcementCount:   countMatches(e.enforcement, text),
		DollarMentions:     countMatches(dollars, text),
		TemporalReferences: countMatches(temporal, text),
	}

	for _, s := range sentences.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			b.SentenceCount++
		}
	}
	if b.SentenceCount > 0 {
		b.AvgSentenceLength = float64(b.WordCount) / float64(b.SentenceCount)
	}

	if b.WordCount > 0 {
		b.CrossrefDensityPer1k = float64(countMatches(crossref, text)) * 1000.0 / float64(b.WordCount)
	}

	b.BurdenScore = e.burdenScore(b)
	return b
}

// burdenScore is a heuristic 0-100 index, a weighted sum of term counts
// scaled by text length. The weights are configuration, not a contract.
func (e *Extractor) burdenScore(b Bundle) float64 {
	if b.WordCount == 0 {
		return 0
	}

	w := e.cfg.Weights
	raw := w.Obligation*float64(b.ObligationCount) +
		w.Prohibition*float64(b.ProhibitionCount) +
		w.Requirement*float64(b.RequirementCount) +
		w.Enforcement*float64(b.EnforcementCount) +
		w.CrossrefDensity*b.CrossrefDensityPer1k

	scale := float64(b.WordCount) / 100.0
	if scale < 1 {
		scale = 1
	}

	score := raw / scale
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
