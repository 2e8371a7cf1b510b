package device

import "strings"

// DisplayName derives a human-readable name from a canonical point name
// (vendor prefix already stripped): underscores become spaces and each
// word is title-cased, so "BOILER_CH_CUR_TEMP" reads
// "Boiler Ch Cur Temp".
func DisplayName(pointName string) string {
	words := strings.Split(pointName, "_")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord lowercases a word and uppercases its first rune. The vendor
// names are plain ASCII, so a byte-level transform is sufficient.
func titleWord(w string) string {
	if w == "" {
		return w
	}
	w = strings.ToLower(w)
	return strings.ToUpper(w[:1]) + w[1:]
}
