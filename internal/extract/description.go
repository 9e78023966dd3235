package extract

import "strings"

// DefaultDescriptionSentences is how many sentences follow the name sentence
const DefaultDescriptionSentences = 3

// ExtractDescription finds the first sentence mentioning the scheme name
// (case-insensitive) and returns up to limit sentences after it, joined by a
// single space. It reports false when the name is empty, never appears, or
// nothing follows the matching sentence.
func ExtractDescription(text, schemeName string, limit int) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(schemeName))
	if name == "" {
		return "", false
	}
	if limit <= 0 {
		limit = DefaultDescriptionSentences
	}

	sentences := splitSentences(text)
	for i, sentence := range sentences {
		if !strings.Contains(strings.ToLower(sentence), name) {
			continue
		}

		end := i + 1 + limit
		if end > len(sentences) {
			end = len(sentences)
		}
		following := sentences[i+1 : end]
		if len(following) == 0 {
			return "", false
		}
		return strings.Join(following, " "), true
	}

	return "", false
}

// splitSentences splits on '.', '!' or '?' followed by whitespace, and on line breaks
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.Join(strings.Fields(current.String()), " ")
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		if r == '\n' {
			flush()
			continue
		}

		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && isSpaceByte(text[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
