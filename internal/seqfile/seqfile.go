// Package seqfile reads and writes integer sequences as text.
package seqfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadSequence parses integers separated by whitespace or commas. Blank
// lines and lines starting with '#' are ignored.
func ReadSequence(r io.Reader) ([]int, error) {
	seq := []int{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid integer %q", lineNo, field)
			}
			seq = append(seq, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seq, nil
}

// LoadSequence reads a sequence from the provided file path.
func LoadSequence(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return ReadSequence(file)
}

// WriteSequence writes one integer per line.
func WriteSequence(w io.Writer, seq []int) error {
	writer := bufio.NewWriter(w)
	for _, v := range seq {
		if _, err := writer.WriteString(strconv.Itoa(v)); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// WriteFile writes seq to path through a temporary file in the same
// directory, so readers never observe a partial file.
func WriteFile(path string, seq []int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "dataset-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := WriteSequence(tmpFile, seq); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}
