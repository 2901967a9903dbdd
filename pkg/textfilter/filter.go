// Package textfilter keeps Santa family friendly. Model output is run
// through a case-preserving word substitution before it reaches the player.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words Santa should never say to what he says instead.
var replacements = map[string]string{
	"fuck":         "fudge",
	"fucking":      "fudging",
	"shit":         "shoot",
	"damn":         "dang",
	"dammit":       "dang it",
	"hell":         "heck",
	"ass":          "bottom",
	"asshole":      "grinch",
	"bitch":        "grinch",
	"bastard":      "scrooge",
	"crap":         "crumbs",
	"piss":         "peeve",
	"pissed":       "peeved",
	"dick":         "grinch",
	"prick":        "grinch",
	"douche":       "grinch",
	"douchebag":    "grinch",
	"jackass":      "nincompoop",
	"dumbass":      "nincompoop",
	"motherfucker": "humbug",
	"goddamn":      "gosh-darn",
	"bullshit":     "balderdash",
	"horseshit":    "hogwash",
	"shithead":     "humbug",
	"dickhead":     "humbug",
	"stupid":       "silly",
	"idiot":        "nincompoop",
}

// FamilyFilter replaces unsuitable words with festive alternatives.
type FamilyFilter struct {
	words   []string
	regexes map[string]*regexp.Regexp
}

// NewFamilyFilter pre-compiles one whole-word pattern per entry. Plural
// forms ending in "s" or "es" are matched too and keep their suffix.
func NewFamilyFilter() *FamilyFilter {
	words := make([]string, 0, len(replacements))
	for w := range replacements {
		words = append(words, w)
	}
	// Longest first so "asshole" is replaced before "ass" can match.
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	f := &FamilyFilter{
		words:   words,
		regexes: make(map[string]*regexp.Regexp, len(words)),
	}
	for _, w := range words {
		f.regexes[w] = regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(w) + `)(es|s)?\b`)
	}
	return f
}

// Filter returns text with every listed word swapped out.
func (f *FamilyFilter) Filter(text string) string {
	result := text
	for _, w := range f.words {
		re := f.regexes[w]
		replacement := replacements[w]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			groups := re.FindStringSubmatch(match)
			return preserveCase(groups[1], replacement) + pluralSuffix(replacement, groups[2])
		})
	}
	return result
}

// pluralSuffix re-pluralizes the replacement when the matched word was plural.
func pluralSuffix(replacement, matched string) string {
	if matched == "" {
		return ""
	}
	suffix := "s"
	for _, end := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(replacement, end) {
			suffix = "es"
			break
		}
	}
	if strings.ToUpper(matched) == matched {
		return strings.ToUpper(suffix)
	}
	return suffix
}

// Contains reports whether text has any listed word.
func (f *FamilyFilter) Contains(text string) bool {
	for _, w := range f.words {
		if f.regexes[w].MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the pattern rune by rune.
	orig := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
