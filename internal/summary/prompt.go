package summary

import (
	"fmt"
	"strings"
)

const summaryInstructions = `You will summarize the key events of the day in a JSON format. The structure of the JSON must be as follows:

{
  "summary": {
    "title": "<title>",
    "section_text": "- <summary point 1>\n- <summary point 2>\n- <summary point 3>"
  }
}

Provide a very simple, concise, three-point summarization. Make it extremely concise. If there is a name, political party, or geographical region mentioned, then briefly explain that.

Respond with ONLY the JSON object, no other text.`

const factInstructions = `Tell me a random obscure, interesting, and enriching piece of information. This can't be about jellyfishes. It can be anything random from physics, biology, animals, plants, computer science, maths, psychology, economics, history, political science, to pretty much anything.

Return the output in a JSON format:

{
  "fact": "<interesting info>"
}`

// factTemperature is deliberately high so runs don't repeat facts.
const factTemperature = 1.5

// buildEventPrompt assembles the per-partition request: instructions plus
// the date, section label and partition text. Each request is
// self-describing, no state is shared across partitions.
func buildEventPrompt(section, dateLabel, partition string) string {
	var sb strings.Builder
	sb.WriteString(summaryInstructions)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Date: %s\n", dateLabel))
	sb.WriteString(fmt.Sprintf("Section: %s\n", section))
	sb.WriteString("---\n")
	sb.WriteString(partition)
	return sb.String()
}
