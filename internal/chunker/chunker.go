package chunker

import "strings"

// Default budgets for the two chunking stages.
const (
	DefaultPromptBudget  = 4000 // summarization provider input partitions
	DefaultMessageBudget = 1600 // single WhatsApp message limit
)

// Split breaks text into ordered chunks of at most budget characters,
// splitting only at line boundaries. A single line longer than budget is
// emitted alone as an oversized chunk rather than truncated: the budget is
// a soft target, line integrity is the hard constraint.
//
// Rejoining the result with "\n" reproduces the input exactly.
func Split(text string, budget int) []string {
	if budget <= 0 {
		budget = DefaultPromptBudget
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	var cur strings.Builder
	open := false

	for _, line := range lines {
		if !open {
			cur.WriteString(line)
			open = true
			continue
		}
		if cur.Len()+len(line)+1 <= budget {
			cur.WriteByte('\n')
			cur.WriteString(line)
			continue
		}
		chunks = append(chunks, cur.String())
		cur.Reset()
		cur.WriteString(line)
	}

	if open {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
