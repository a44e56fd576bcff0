package scoring

import "encoding/json"

// decodeReport turns a raw model response into a report. The response is
// scanned for the first balanced JSON object; anything the model wrapped
// around it (markdown fences, prose) is ignored. When no object is found or
// it does not decode, the fallback report carries the raw output instead.
func decodeReport(provider string, rawResponse string) Report {
	candidate, ok := extractJSONObject(rawResponse)
	if !ok {
		return fallbackReport(provider, rawResponse)
	}

	var report Report
	if err := json.Unmarshal([]byte(candidate), &report); err != nil {
		return fallbackReport(provider, rawResponse)
	}

	report.Provider = provider
	report.RawResponse = rawResponse
	return report
}

// extractJSONObject returns the first balanced {...} span in s. Braces inside
// JSON string literals are skipped.
func extractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
