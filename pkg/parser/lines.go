// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser splits command output into entries with customizable settings.
type Parser struct {
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithDelimiter sets the delimiter used to split entries.
// Default is newline ("\n"); a trailing "\r" is always trimmed.
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the output to be parsed.
// Default is 4MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip lines starting with '#'.
// Default is false.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used in Map.
// Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value used when a key has no associated value.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters to trim from values in Map.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues sets whether Map drops entries with empty values.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a new Parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:   "\n",
		maxSize:     4 << 20,
		kvDelimiter: "=",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lines splits b by the configured delimiter and returns the non-empty
// trimmed entries. It fails when b exceeds the maximum size or is not valid
// UTF-8.
func (p *Parser) Lines(b []byte) ([]string, error) {
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("output exceeds maximum size of %d bytes", p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("output is not valid UTF-8")
	}

	parts := strings.Split(string(b), p.delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// Each streams the non-empty trimmed entries of r to fn in order. Total
// input is unbounded; the maximum size applies to a single entry. Scanning
// stops early when fn returns false.
func (p *Parser) Each(r io.Reader, fn func(entry string) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(4096, p.maxSize)), p.maxSize)
	sc.Split(p.splitEntries)
	for sc.Scan() {
		b := sc.Bytes()
		if !utf8.Valid(b) {
			return fmt.Errorf("output is not valid UTF-8")
		}
		clean := strings.TrimSpace(string(b))
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		if !fn(clean) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("entry exceeds maximum size of %d bytes", p.maxSize)
		}
		return err
	}
	return nil
}

func (p *Parser) splitEntries(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte(p.delimiter)); i >= 0 {
		return i + len(p.delimiter), data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Map splits each entry of b on the first key-value delimiter. Entries
// without a delimiter map to the configured default value.
func (p *Parser) Map(b []byte) (map[string]string, error) {
	lines, err := p.Lines(b)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		kv := strings.SplitN(line, p.kvDelimiter, 2)
		key := strings.TrimSpace(kv[0])

		if len(kv) != 2 {
			if p.skipEmptyValues && p.vDefault == "" {
				slog.Debug("skipping key-only entry", "key", key)
				continue
			}
			result[key] = p.vDefault
			continue
		}

		value := strings.TrimSpace(kv[1])
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result, nil
}
