package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadConfigArgs reads the ahogrep config file and returns parsed arguments.
// Config file location: AHOGREP_CONFIG_PATH env var, or ~/.ahogrep.
// Format: one flag per line, # comments, empty lines ignored.
// Returns nil if no config file found.
func LoadConfigArgs() []string {
	path := os.Getenv("AHOGREP_CONFIG_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".ahogrep")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return args
}

// LoadKeywordFile parses a -f keyword file: one keyword per line, blank
// lines and #-comments ignored. A line may carry a tab-separated integer
// payload (keyword\tpayload); without a tab the keyword gets payload 0.
func LoadKeywordFile(path string) ([]Keyword, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword file %s: %w", path, err)
	}
	defer f.Close()

	var keywords []Keyword
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			text := line[:tab]
			if text == "" {
				continue
			}
			payload, err := strconv.ParseInt(line[tab+1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid payload: %w", path, lineNo, err)
			}
			keywords = append(keywords, Keyword{Text: text, Payload: payload})
			continue
		}
		keywords = append(keywords, Keyword{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keyword file %s: %w", path, err)
	}
	return keywords, nil
}
