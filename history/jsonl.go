package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL writes records as JSON Lines, one record per line.
func WriteJSONL(w io.Writer, records []*Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record %d: %w", r.Seq, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL parses records from a JSON Lines stream. Blank lines are
// skipped.
func ReadJSONL(r io.Reader) ([]*Record, error) {
	scanner := bufio.NewScanner(r)
	var out []*Record
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
