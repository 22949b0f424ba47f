package aligner

import (
	"regexp"
	"strings"
)

// PDF text extraction concatenates the remitter name and narrative into a
// single run. cleanup undoes the worst of it: known suffix artifacts are
// stripped, a space is inserted at every lower-to-upper transition, and a
// small set of known Vietnamese family-name prefixes get re-separated from
// the narrative that was smeared onto them.

var lowerUpperRe = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)

// DefaultSuffixArtifacts are trailing fragments the extractor picks up from
// the column that follows the description in the printed layout.
var DefaultSuffixArtifacts = []string{"-", ".", "_", ";"}

// DefaultNamePrefixes are family names that open remitter runs like
// "NGUYENVANAchuyen tien".
var DefaultNamePrefixes = []string{"NGUYEN", "TRAN", "LE", "PHAM", "HOANG"}

// Cleaner normalizes attached text into a readable description.
type Cleaner struct {
	suffixes []string
	prefixes []string
}

func NewCleaner(suffixArtifacts, namePrefixes []string) *Cleaner {
	return &Cleaner{suffixes: suffixArtifacts, prefixes: namePrefixes}
}

// Clean produces the record description from a reference's attached text.
func (c *Cleaner) Clean(attached string) string {
	s := strings.TrimSpace(attached)

	for changed := true; changed; {
		changed = false
		for _, suf := range c.suffixes {
			if suf != "" && strings.HasSuffix(s, suf) {
				s = strings.TrimSuffix(s, suf)
				changed = true
			}
		}
	}

	s = lowerUpperRe.ReplaceAllString(s, "$1 $2")

	for _, prefix := range c.prefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok && rest != "" && !strings.HasPrefix(rest, " ") {
			s = prefix + " " + rest
			break
		}
	}

	// The transfer narrative loses its internal spaces more often than
	// not, and the remitter name smears onto its front.
	s = strings.ReplaceAll(s, "chuyentien", " chuyen tien")
	s = strings.ReplaceAll(s, "Chuyentien", "Chuyen tien")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	return strings.TrimSpace(s)
}
