// Package store persists validation results: a JSON-lines file artifact
// (optionally lz4-compressed) for batch runs, and a content-hash cache
// that lets repeated runs skip unchanged files.
package store

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/validator"
)

// lz4Ext marks output paths that get frame-compressed.
const lz4Ext = ".lz4"

// Record is one persisted validation outcome.
type Record struct {
	Path      string               `json:"path"`
	Framework frameworks.Framework `json:"framework"`
	SHA256    string               `json:"sha256"`
	Result    validator.Result     `json:"result"`
}

// HashContent returns the hex SHA-256 of a file's content, the key used
// by both Record.SHA256 and the cache.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// WriteRecords writes records as JSON lines to path. A path ending in
// .lz4 is compressed with the lz4 frame format.
func WriteRecords(path string, records []Record) (err error) {
	file, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("create result file: %w", createErr)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close result file: %w", closeErr)
		}
	}()

	var sink io.Writer = file

	if strings.HasSuffix(path, lz4Ext) {
		zw := lz4.NewWriter(file)

		defer func() {
			closeErr := zw.Close()
			if err == nil && closeErr != nil {
				err = fmt.Errorf("close lz4 writer: %w", closeErr)
			}
		}()

		sink = zw
	}

	buf := bufio.NewWriter(sink)
	enc := json.NewEncoder(buf)

	for _, record := range records {
		encodeErr := enc.Encode(record)
		if encodeErr != nil {
			return fmt.Errorf("encode record %s: %w", record.Path, encodeErr)
		}
	}

	flushErr := buf.Flush()
	if flushErr != nil {
		return fmt.Errorf("flush result file: %w", flushErr)
	}

	return nil
}

// ReadRecords reads a JSON-lines result file written by WriteRecords,
// transparently decompressing .lz4 artifacts.
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer file.Close()

	var source io.Reader = file

	if strings.HasSuffix(path, lz4Ext) {
		source = lz4.NewReader(file)
	}

	var records []Record

	dec := json.NewDecoder(source)

	for {
		var record Record

		decodeErr := dec.Decode(&record)
		if errors.Is(decodeErr, io.EOF) {
			break
		}

		if decodeErr != nil {
			return nil, fmt.Errorf("decode record: %w", decodeErr)
		}

		records = append(records, record)
	}

	return records, nil
}
