package utils

import "strings"

// Mapping between Arabic digits and the ideographic numerals customers use
// interchangeably ("五人座" vs "5人座"). "十" maps to "10" and back.
var ideographToArabic = map[string]string{
	"十": "10",
	"一": "1", "二": "2", "三": "3", "四": "4", "五": "5",
	"六": "6", "七": "7", "八": "8", "九": "9",
}

var arabicToIdeograph = map[string]string{
	"10": "十",
	"1": "一", "2": "二", "3": "三", "4": "四", "5": "五",
	"6": "六", "7": "七", "8": "八", "9": "九",
}

// NumeralVariants returns the distinct numeral renderings of text: the text
// itself, a fully Arabic-digit form and a fully ideographic form. Indexing
// every variant lets a query phrased either way hit the same snippet.
// Substitution is done variant-by-variant rather than in one shared pass, so
// a replacement can never be re-replaced in the opposite direction.
func NumeralVariants(text string) []string {
	variants := []string{text}
	if v := replaceAll(text, ideographToArabic); v != text {
		variants = append(variants, v)
	}
	if v := replaceAll(text, arabicToIdeograph); v != text && !contains(variants, v) {
		variants = append(variants, v)
	}
	return variants
}

func replaceAll(text string, mapping map[string]string) string {
	// Multi-rune keys ("10") must be replaced before their single-rune
	// prefixes to keep the substitution unambiguous.
	if v, ok := mapping["10"]; ok {
		text = strings.ReplaceAll(text, "10", v)
	}
	if v, ok := mapping["十"]; ok {
		text = strings.ReplaceAll(text, "十", v)
	}
	for k, v := range mapping {
		if k == "10" || k == "十" {
			continue
		}
		text = strings.ReplaceAll(text, k, v)
	}
	return text
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
