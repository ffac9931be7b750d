package nutrition

// ExtractJSON scans text for the outermost balanced {...} substring.
// Vision models often prepend or append commentary around the JSON they
// were asked for; this recovers the object without re-prompting.
// Brace characters inside JSON strings are ignored.
func ExtractJSON(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
