package morse

import "strings"

// wordGap separates words in encoded text: the blank token a space
// encodes to, surrounded by the usual letter separators.
const wordGap = "   "

var charToCode = map[rune]string{
	// letters
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..",
	'E': ".", 'F': "..-.", 'G': "--.", 'H': "....",
	'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.",
	'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",

	// digits
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
}

var codeToChar = func() map[string]rune {
	m := make(map[string]rune, len(charToCode))
	for r, c := range charToCode {
		m[c] = r
	}
	return m
}()

// Encode converts text to Morse code. Letters are separated by one space
// and words by three. Only letters, digits and the space character have a
// code; everything else is skipped.
func Encode(text string) string {
	var codes []string

	for _, r := range strings.ToUpper(text) {
		if r == ' ' {
			codes = append(codes, " ")
			continue
		}
		if c, ok := charToCode[r]; ok {
			codes = append(codes, c)
		}
	}

	return strings.Join(codes, " ")
}

// Decode converts Morse code back to text. Unknown codes are skipped.
func Decode(code string) string {
	var words []string

	for _, w := range strings.Split(code, wordGap) {
		var sb strings.Builder
		for _, c := range strings.Split(w, " ") {
			if r, ok := codeToChar[c]; ok {
				sb.WriteRune(r)
			}
		}
		if sb.Len() > 0 {
			words = append(words, sb.String())
		}
	}

	return strings.Join(words, " ")
}
