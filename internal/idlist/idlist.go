// Package idlist reads identifier lists from disk and normalizes them for
// a mapping job.
package idlist

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
)

// ReadFile reads newline-delimited identifier tokens from path. Tokens are
// whitespace-trimmed, blank lines are dropped, and the result is sorted and
// deduplicated. The sorted order is the canonical input order of the job:
// results are concatenated in this order.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identifier list: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			continue
		}
		ids = append(ids, token)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("reading identifier list: %w", scanErr)
	}

	return Normalize(ids), nil
}

// Normalize sorts ids and removes duplicates in place, returning the
// shortened slice.
func Normalize(ids []string) []string {
	slices.Sort(ids)
	return slices.Compact(ids)
}
