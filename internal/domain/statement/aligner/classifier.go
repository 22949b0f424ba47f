package aligner

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/hqdang/bankstmt/internal/domain/record"
)

// Classifier routes a reference's attached text to credit or debit by
// matching a closed, auditable keyword set for incoming funds. It is a
// single-pass Aho-Corasick scan, so the set can grow to cover new statement
// dialects without a cost per keyword.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// DefaultCreditKeywords mark incoming funds in the statement dialects seen so
// far: transfer-received wording, interest and yield postings, and known
// counterpart names.
var DefaultCreditKeywords = []string{
	"nhan", "receipt", "interest", "yield", "lai nhap von", "hoan tien",
}

// NewClassifier builds a matcher over the lower-cased keyword set. An empty
// set classifies everything as debit.
func NewClassifier(creditKeywords []string) *Classifier {
	lowered := make([]string, 0, len(creditKeywords))
	for _, kw := range creditKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	c := &Classifier{keywords: lowered}
	if len(lowered) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(lowered)
	}
	return c
}

// Classify returns Credit when any keyword occurs in the lower-cased text.
func (c *Classifier) Classify(attachedText string) record.Direction {
	if c.matcher == nil {
		return record.Debit
	}
	if hits := c.matcher.Match([]byte(strings.ToLower(attachedText))); len(hits) > 0 {
		return record.Credit
	}
	return record.Debit
}
