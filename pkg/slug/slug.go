package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Latin letters that appear in product names, folded to ASCII.
var foldReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ä", "a", "ã", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "ö", "o", "õ", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
	"&", " and ",
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "King Coconut Water" → "king-coconut-water"
//   - "Açaí & Cacao" → "acai-and-cacao"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := foldReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
