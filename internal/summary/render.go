package summary

import (
	"strings"

	"github.com/rkhatri/dailybrief/internal/events"
)

// Render formats an event sequence as prompt-ready text, one event per line
// so the chunker can split it cleanly. Main categories become bold heading
// lines, subcategories sub-heading lines, items bullets with their links
// appended.
func Render(evs []events.Event) string {
	var sb strings.Builder

	for i, e := range evs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch e.Kind {
		case events.KindMainCategory:
			sb.WriteString("*" + e.Text + "*")
		case events.KindSubCategory:
			sb.WriteString("_" + e.Text + "_")
		case events.KindNestedItem:
			sb.WriteString("  - " + e.Text)
			writeLinks(&sb, e.Links)
		default:
			sb.WriteString("- " + e.Text)
			writeLinks(&sb, e.Links)
		}
	}

	return sb.String()
}

func writeLinks(sb *strings.Builder, links []string) {
	if len(links) == 0 {
		return
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(links, ", "))
	sb.WriteString(")")
}
