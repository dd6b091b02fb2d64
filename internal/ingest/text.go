package ingest

import (
	"regexp"
	"strings"
)

var (
	multiSpace = regexp.MustCompile(` {2,}`)
	headerLine = regexp.MustCompile(`(?i)date`)
	headerWord = regexp.MustCompile(`(?i)activity`)
)

// parseDelimited is the catch-all detector for tab- or space-delimited
// pastes. Lines split by tabs when present, else by runs of two or more
// spaces when that yields a full row, else by any whitespace.
func parseDelimited(raw string) (Result, bool) {
	lines := mergeDateLines(splitLines(raw))

	var res Result
	for _, ln := range lines {
		line := strings.TrimSpace(ln.text)
		if line == "" {
			continue
		}
		if headerLine.MatchString(line) && headerWord.MatchString(line) && !isDateToken(firstField(line)) {
			continue // column header pasted along with the data
		}

		fields := splitFields(line)
		if len(fields) < 6 {
			res.Errors = append(res.Errors, RowError{Line: ln.number, Reason: ReasonShortRow, Raw: line})
			continue
		}

		row := mapDelimitedRow(fields)
		row.line = ln.number
		row.raw = line

		tx, rowErr := normalizeRow(row)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res, len(res.Transactions) > 0 || len(res.Errors) > 0
}

type numberedLine struct {
	number int
	text   string
}

// mergeDateLines joins a line holding nothing but a date with the line
// after it. Some 401(k) statements wrap the date onto its own line.
func mergeDateLines(lines []string) []numberedLine {
	var out []numberedLine
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" && isDateToken(trimmed) && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			// join with the follower's own delimiter so splitFields still works
			sep := "\t"
			if !strings.Contains(lines[i+1], "\t") {
				sep = "  "
			}
			out = append(out, numberedLine{number: i + 1, text: trimmed + sep + lines[i+1]})
			i++
			continue
		}
		out = append(out, numberedLine{number: i + 1, text: lines[i]})
	}
	return out
}

func splitFields(line string) []string {
	if strings.Contains(line, "\t") {
		var fields []string
		for _, f := range strings.Split(line, "\t") {
			if t := strings.TrimSpace(f); t != "" {
				fields = append(fields, t)
			}
		}
		return fields
	}
	if fields := multiSpace.Split(line, -1); len(fields) >= 6 {
		return fields
	}
	return strings.Fields(line)
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// mapDelimitedRow consumes tokens from both ends: the date from the front;
// amount, unit price, units, and money source from the back, in that
// order. Whatever is left in the middle is the activity plus fund name.
func mapDelimitedRow(fields []string) rawRow {
	var row rawRow
	row.date = fields[0]
	rest := fields[1:]

	pop := func() string {
		last := rest[len(rest)-1]
		rest = rest[:len(rest)-1]
		return last
	}

	if len(rest) >= 4 {
		row.amount = pop()
	}
	row.price = pop()
	row.units = pop()
	row.source = pop()

	row.activity, row.fund = splitActivityFund(strings.Join(rest, " "))
	return row
}
