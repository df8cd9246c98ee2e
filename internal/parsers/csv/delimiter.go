package csv

import "strings"

// DetectDelimiter detects the CSV delimiter by scoring candidate
// delimiters for count consistency across the first few non-empty lines.
func DetectDelimiter(content string) Delimiter {
	sample := sampleLines(content, 5)
	if len(sample) == 0 {
		return DelimiterComma
	}

	best := DelimiterComma
	bestScore := 0.0
	for _, delim := range []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab} {
		var sum, sqSum float64
		for _, line := range sample {
			n := float64(strings.Count(line, string(delim)))
			sum += n
			sqSum += n * n
		}
		avg := sum / float64(len(sample))
		if avg == 0 {
			continue
		}
		variance := sqSum/float64(len(sample)) - avg*avg
		// High average count with low variance means a consistent column
		// structure under this delimiter.
		score := avg / (1.0 + variance)
		if score > bestScore {
			bestScore = score
			best = delim
		}
	}
	return best
}

func sampleLines(content string, limit int) []string {
	lines := make([]string, 0, limit)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
			if len(lines) >= limit {
				break
			}
		}
	}
	return lines
}
