// SPDX-License-Identifier: MIT

package prob

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/qifsynth/numeric"
)

// ParseMatrix reads rows of whitespace-separated numbers. Blank lines and
// lines starting with '#' are skipped. Rows must all have the same length.
func ParseMatrix[T any](dom numeric.Domain[T], r io.Reader) ([][]T, error) {
	var (
		rows [][]T
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(rows) > 0 && len(fields) != len(rows[0]) {
			return nil, fmt.Errorf("ParseMatrix: line %d has %d values, want %d: %w", line, len(fields), len(rows[0]), ErrRaggedRows)
		}
		row := make([]T, len(fields))
		for i, f := range fields {
			v, err := dom.Parse(f)
			if err != nil {
				return nil, fmt.Errorf("ParseMatrix: line %d: %w", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	return rows, nil
}

// ParseDist reads a distribution written as a single row.
func ParseDist[T any](dom numeric.Domain[T], r io.Reader) (Dist[T], error) {
	rows, err := ParseMatrix(dom, r)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("ParseDist: %d rows, want 1: %w", len(rows), ErrRaggedRows)
	}

	return Dist[T](rows[0]), nil
}

// ParseChannel reads a channel, one row per secret.
func ParseChannel[T any](dom numeric.Domain[T], r io.Reader) (Channel[T], error) {
	rows, err := ParseMatrix(dom, r)
	if err != nil {
		return Channel[T]{}, err
	}

	return ChannelFromRows(rows)
}

// FormatChannel writes c in the same representation ParseChannel reads.
func FormatChannel[T any](dom numeric.Domain[T], w io.Writer, c Channel[T]) error {
	bw := bufio.NewWriter(w)
	for x := 0; x < c.n; x++ {
		for y := 0; y < c.m; y++ {
			if y > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(dom.String(c.At(x, y))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}
