package textile

import (
	"fmt"
	"strings"
)

type listEntry struct {
	depth int
	tag   string
	text  string
}

// renderList converts a block of "*"/"#" prefixed lines into nested lists.
// A deeper marker opens a list inside the previous item.
func renderList(block string, inline func(string) string) (string, error) {
	var entries []listEntry
	for line := range strings.SplitSeq(block, "\n") {
		m := listItem.FindStringSubmatch(line)
		if m == nil {
			return "", fmt.Errorf("not a list item: %q", line)
		}
		tag := "ul"
		if m[1][0] == '#' {
			tag = "ol"
		}
		entries = append(entries, listEntry{depth: len(m[1]), tag: tag, text: m[2]})
	}

	var b strings.Builder
	pos := 0
	writeList(&b, entries, &pos, 1, inline)
	return b.String(), nil
}

func writeList(b *strings.Builder, entries []listEntry, pos *int, depth int, inline func(string) string) {
	tag := entries[*pos].tag
	b.WriteString(indent(depth-1) + "<" + tag + ">\n")

	for *pos < len(entries) && entries[*pos].depth >= depth {
		entry := entries[*pos]
		b.WriteString(indent(depth) + "<li>" + inline(entry.text))
		*pos++

		if *pos < len(entries) && entries[*pos].depth > depth {
			b.WriteString("\n")
			writeList(b, entries, pos, depth+1, inline)
			b.WriteString("\n" + indent(depth))
		}
		b.WriteString("</li>\n")
	}

	b.WriteString(indent(depth-1) + "</" + tag + ">")
}

func indent(n int) string {
	return strings.Repeat("\t", n)
}
