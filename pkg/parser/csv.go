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
	"strings"
)

// ParseCSVLine splits one line of quoted CSV into fields. Every '"' outside
// quotes opens a quoted section and the next lone '"' closes it, wherever it
// sits in the field; inside quotes a doubled "" is a literal quote and a
// comma does not end the field. An empty line yields a single empty field.
func ParseCSVLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && !inQuotes:
			inQuotes = true
		case c == '"' && inQuotes:
			if i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, current.String())
}

// Header maps column names to indexes for one CSV output.
type Header struct {
	fields []string
	index  map[string]int
}

// NewHeader returns a Header over the given header row.
func NewHeader(fields []string) *Header {
	return &Header{
		fields: fields,
		index:  make(map[string]int),
	}
}

// Index returns the index of the first column whose name contains name, or -1.
// Lookups are resolved once and remembered.
func (h *Header) Index(name string) int {
	if i, ok := h.index[name]; ok {
		return i
	}
	i := -1
	for j, f := range h.fields {
		if strings.Contains(f, name) {
			i = j
			break
		}
	}
	h.index[name] = i
	return i
}

// Get returns the value of the named column in row, or "" if the column is
// unknown or the row is short.
func (h *Header) Get(row []string, name string) string {
	i := h.Index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// IsRepeat reports whether row is a copy of the header row. Verbose
// schtasks output repeats the header before every task folder.
func (h *Header) IsRepeat(row []string) bool {
	if len(row) != len(h.fields) {
		return false
	}
	for i := range row {
		if row[i] != h.fields[i] {
			return false
		}
	}
	return true
}
