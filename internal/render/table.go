// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package render

import (
	"fmt"
	"regexp"
	"strings"

	"grimm.is/tfdocs/internal/hclmod"
)

// writeTable emits a github-style markdown table.
func writeTable(sb *strings.Builder, table [][]string) {
	if len(table) == 0 {
		return
	}

	sb.WriteString("| " + strings.Join(table[0], " | ") + " |\n")

	sep := make([]string, len(table[0]))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("|" + strings.Join(sep, "|") + "|\n")

	for _, row := range table[1:] {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

// filterColumns drops the cells whose position is marked in skip.
func filterColumns(row []string, skip []bool) []string {
	kept := make([]string, 0, len(row))
	for i, cell := range row {
		if i < len(skip) && skip[i] {
			continue
		}
		kept = append(kept, cell)
	}
	return kept
}

// removeEmptyColumns drops columns whose every data cell is empty.
func removeEmptyColumns(header []string, rows [][]string) ([]string, [][]string) {
	if len(rows) == 0 {
		return header, rows
	}

	keep := make([]bool, len(header))
	for col := range header {
		for _, row := range rows {
			if col < len(row) && row[col] != "" {
				keep[col] = true
				break
			}
		}
	}

	newHeader := make([]string, 0, len(header))
	for col, k := range keep {
		if k {
			newHeader = append(newHeader, header[col])
		}
	}
	newRows := make([][]string, len(rows))
	for i, row := range rows {
		newRow := make([]string, 0, len(row))
		for col, k := range keep {
			if k && col < len(row) {
				newRow = append(newRow, row[col])
			}
		}
		newRows[i] = newRow
	}
	return newHeader, newRows
}

var brEdgeRE = regexp.MustCompile(`(^(\s*<br/>\s*)+|(\s*<br/>\s*)+$)`)

// collapseColumn wraps long cells of one column in a details element. For
// descriptions the first line stays visible above the fold.
func collapseColumn(table [][]string, column string, keepFirstLine bool, threshold int) {
	idx := columnIndex(table[0], column)
	if idx == -1 {
		return
	}

	for _, row := range table[1:] {
		if idx >= len(row) {
			continue
		}
		elem := brEdgeRE.ReplaceAllString(row[idx], "")
		first := ""
		if keepFirstLine {
			lines := strings.Split(elem, "<br/>")
			first = strings.TrimSpace(lines[0])
			elem = strings.TrimSpace(strings.Join(lines[1:], "<br/>"))
			elem = brEdgeRE.ReplaceAllString(elem, "")
		}
		if len(elem) > threshold {
			elem = fmt.Sprintf("<details>%s</details>", elem)
		}
		switch {
		case keepFirstLine && elem != "":
			row[idx] = first + "<br/>" + elem
		case keepFirstLine:
			row[idx] = first
		default:
			row[idx] = elem
		}
	}
}

// columnIndex returns the index of a header column, or -1.
func columnIndex(header []string, column string) int {
	for i, h := range header {
		if h == column {
			return i
		}
	}
	return -1
}

// formatDescription converts a description to table-safe HTML: line breaks
// become <br/> and markdown dash lists become HTML lists.
func formatDescription(desc string) string {
	if desc == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(desc), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if item, ok := strings.CutPrefix(line, "- "); ok {
			line = "<li>" + item + "</li>"
		}
		lines[i] = line
	}
	out := strings.Join(lines, "<br/>")

	out = listRunRE.ReplaceAllString(out, "<ul>$0</ul>")
	out = strings.ReplaceAll(out, "</li><br/><li>", "</li><li>")
	return out
}

// listRunRE matches a run of adjacent list items, including the <br/>
// separators the join above inserted between them.
var listRunRE = regexp.MustCompile(`<li>.+</li>`)

// formatChecks renders validation error messages as an HTML list.
func formatChecks(checks []hclmod.Check) string {
	if len(checks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, c := range checks {
		sb.WriteString("<li>" + c.ErrorMessage + "</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}
