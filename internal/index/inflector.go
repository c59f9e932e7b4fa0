// # internal/index/inflector.go
package index

import (
	"strings"
	"unicode"
)

// Inflector maps file name segments to namespace segments and back.
// The transform is pure and reversible for canonical snake_case input:
// Underscore(Camelize(x)) == x when x has no repeated underscores.
// Acronym overrides are per-inflector, never process-global, so two
// projects with different conventions can coexist in one process.
//
// Edge cases:
//   - empty runs from repeated underscores are dropped ("a__b" -> "AB")
//   - digits stay in place ("s3_bucket" -> "S3Bucket")
//   - acronyms round-trip through the override table
//     ("api_client" -> "APIClient" -> "api_client")
type Inflector struct {
	acronyms map[string]string // lower-cased word -> canonical form
	reverse  map[string]string // canonical form -> lower-cased word
}

func NewInflector(acronyms []string) *Inflector {
	inf := &Inflector{
		acronyms: make(map[string]string, len(acronyms)),
		reverse:  make(map[string]string, len(acronyms)),
	}
	for _, a := range acronyms {
		if a == "" {
			continue
		}
		lower := strings.ToLower(a)
		inf.acronyms[lower] = a
		inf.reverse[a] = lower
	}
	return inf
}

// Camelize turns a snake_case file segment into a namespace segment:
// "order_item" -> "OrderItem".
func (inf *Inflector) Camelize(word string) string {
	parts := strings.Split(word, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if canonical, ok := inf.acronyms[part]; ok {
			b.WriteString(canonical)
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// Underscore is the inverse transform: "OrderItem" -> "order_item",
// "APIClient" -> "api_client" (given the "API" acronym).
func (inf *Inflector) Underscore(name string) string {
	// Substitute acronyms first so their internal capitals do not split.
	for canonical, lower := range inf.reverse {
		name = strings.ReplaceAll(name, canonical, "_"+lower+"_")
	}

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prevUpper := unicode.IsUpper(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if !prevUpper || nextLower {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return strings.Trim(strings.ReplaceAll(b.String(), "__", "_"), "_")
}
