package output

import (
	"fmt"
	"strconv"
)

// TextFormatter formats results as human-readable text with optional color.
type TextFormatter struct {
	styles      Styles
	lineNumbers bool
	countOnly   bool
	filesOnly   bool
	useColor    bool
	maxColumns  int
}

// NewTextFormatter creates a TextFormatter. maxColumns of 0 means no limit.
func NewTextFormatter(styles Styles, lineNumbers, countOnly, filesOnly, useColor bool, maxColumns int) *TextFormatter {
	return &TextFormatter{
		styles:      styles,
		lineNumbers: lineNumbers,
		countOnly:   countOnly,
		filesOnly:   filesOnly,
		useColor:    useColor,
		maxColumns:  maxColumns,
	}
}

func (f *TextFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if f.filesOnly {
		if result.HasMatch() {
			return append(buf, append([]byte(result.FilePath), '\n')...)
		}
		return buf
	}

	if f.countOnly {
		if multiFile {
			return append(buf, []byte(fmt.Sprintf("%s:%d\n", result.FilePath, result.Count()))...)
		}
		return append(buf, []byte(strconv.Itoa(result.Count())+"\n")...)
	}

	ms := &result.MatchSet
	for i := range ms.Matches {
		buf = f.formatLine(buf, result.FilePath, ms, i, multiFile)
	}
	return buf
}

func (f *TextFormatter) formatLine(buf []byte, filePath string, ms *MatchSet, i int, multiFile bool) []byte {
	m := &ms.Matches[i]

	if m.IsContext && m.LineNum == 0 {
		return append(buf, "--\n"...)
	}

	if multiFile {
		if f.useColor {
			buf = append(buf, f.styles.Filename.Render(filePath)...)
		} else {
			buf = append(buf, filePath...)
		}
		buf = append(buf, f.sep(m.IsContext)...)
	}

	if f.lineNumbers {
		numStr := strconv.Itoa(m.LineNum)
		if f.useColor {
			buf = append(buf, f.styles.LineNum.Render(numStr)...)
		} else {
			buf = append(buf, numStr...)
		}
		buf = append(buf, f.sep(m.IsContext)...)
	}

	line := ms.LineBytes(i)
	positions := ms.MatchPositions(i)

	if f.maxColumns > 0 && len(line) > f.maxColumns {
		var windowStart int
		if len(positions) > 0 {
			center := (positions[0][0] + positions[0][1]) / 2
			windowStart = center - f.maxColumns/2
		}
		if windowStart < 0 {
			windowStart = 0
		}
		windowEnd := windowStart + f.maxColumns
		if windowEnd > len(line) {
			windowEnd = len(line)
			windowStart = windowEnd - f.maxColumns
			if windowStart < 0 {
				windowStart = 0
			}
		}
		clipped := make([][2]int, 0, len(positions))
		for _, p := range positions {
			start, end := p[0]-windowStart, p[1]-windowStart
			if end <= 0 || start >= windowEnd-windowStart {
				continue
			}
			if start < 0 {
				start = 0
			}
			if end > windowEnd-windowStart {
				end = windowEnd - windowStart
			}
			clipped = append(clipped, [2]int{start, end})
		}
		line = line[windowStart:windowEnd]
		positions = clipped
	}

	if f.useColor && len(positions) > 0 {
		buf = f.highlightMatches(buf, line, positions)
	} else {
		buf = append(buf, line...)
	}

	buf = append(buf, '\n')
	return buf
}

func (f *TextFormatter) sep(isContext bool) string {
	if isContext {
		return "-"
	}
	return ":"
}

func (f *TextFormatter) highlightMatches(buf []byte, line []byte, positions [][2]int) []byte {
	prev := 0
	for _, pos := range positions {
		start, end := pos[0], pos[1]
		if start > len(line) {
			break
		}
		if end > len(line) {
			end = len(line)
		}
		if start > prev {
			buf = append(buf, line[prev:start]...)
		}
		buf = append(buf, f.styles.Match.Render(string(line[start:end]))...)
		prev = end
	}
	if prev < len(line) {
		buf = append(buf, line[prev:]...)
	}
	return buf
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
