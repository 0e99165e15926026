package morse

import "strings"

// Render writes one "." or "-" per symbol, separated by single spaces.
func Render(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.Element.String()
	}
	return strings.Join(parts, " ")
}

// Letters groups symbols into letters: a silence of at least gap seconds
// between two symbols starts a new letter. The result can be fed to Decode.
func Letters(symbols []Symbol, gap float64) string {
	var sb strings.Builder

	for i, s := range symbols {
		if i > 0 && s.Start-symbols[i-1].End() >= gap {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Element.String())
	}

	return sb.String()
}
