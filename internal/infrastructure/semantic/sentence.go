package semantic

import "strings"

// SplitSentences segments normalized text on sentence terminators. A
// terminator only closes a sentence when followed by whitespace or the end of
// input, so decimals and version numbers stay intact.
func SplitSentences(text string) []string {
	var out []string
	var sb strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		sb.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		atEnd := i == len(runes)-1
		if atEnd || runes[i+1] == ' ' {
			sentence := strings.TrimSpace(sb.String())
			if sentence != "" {
				out = append(out, sentence)
			}
			sb.Reset()
		}
	}
	if rest := strings.TrimSpace(sb.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
