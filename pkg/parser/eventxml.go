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

const eventStart = "<Event xmlns="

// EventEntry is one event-log record.
type EventEntry struct {
	Level       string `json:"level" yaml:"level"`
	Source      string `json:"source" yaml:"source"`
	EventID     string `json:"eventId" yaml:"eventId"`
	TimeCreated string `json:"timeCreated" yaml:"timeCreated"`
	Message     string `json:"message" yaml:"message"`
}

var levelNames = map[string]string{
	"1": "Critical",
	"2": "Error",
	"3": "Warning",
}

// SplitEvents returns the text of each <Event ...> block in xml.
func SplitEvents(xml string) []string {
	parts := strings.Split(xml, eventStart)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// openTag returns the offset of the first "<tag" in s that is followed by
// whitespace, '>' or '/', or -1.
func openTag(s, tag string) int {
	needle := "<" + tag
	off := 0
	for {
		i := strings.Index(s[off:], needle)
		if i < 0 {
			return -1
		}
		i += off
		end := i + len(needle)
		if end >= len(s) {
			return -1
		}
		switch s[end] {
		case '>', '/', ' ', '\t', '\r', '\n':
			return i
		}
		off = end
	}
}

// ElementText returns the trimmed inner text of the first <tag> element in
// block, stopping at the first </tag>. It returns "" when the element is
// missing, unterminated or self-closing.
func ElementText(block, tag string) string {
	start := openTag(block, tag)
	if start < 0 {
		return ""
	}
	rest := block[start:]
	gt := strings.IndexByte(rest, '>')
	if gt < 0 || (gt > 0 && rest[gt-1] == '/') {
		return ""
	}
	content := rest[gt+1:]
	end := strings.Index(content, "</"+tag+">")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(content[:end])
}

// Attribute returns the value of attr on the first <tag> element in block.
// Both attr='v' and attr="v" are accepted.
func Attribute(block, tag, attr string) string {
	start := openTag(block, tag)
	if start < 0 {
		return ""
	}
	rest := block[start:]
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return ""
	}
	inner := rest[:gt]

	for _, q := range []string{"'", `"`} {
		pat := " " + attr + "=" + q
		i := strings.Index(inner, pat)
		if i < 0 {
			continue
		}
		val := inner[i+len(pat):]
		j := strings.Index(val, q)
		if j < 0 {
			return ""
		}
		return val[:j]
	}
	return ""
}

// ParseEvents scans wevtutil XML output into entries. Levels 1, 2 and 3 are
// reported as Critical, Error and Warning; other levels keep their number.
// Blocks without a level are dropped.
func ParseEvents(xml string) []EventEntry {
	blocks := SplitEvents(xml)
	events := make([]EventEntry, 0, len(blocks))
	for _, b := range blocks {
		level := ElementText(b, "Level")
		if level == "" {
			continue
		}
		if name, ok := levelNames[level]; ok {
			level = name
		}
		events = append(events, EventEntry{
			Level:       level,
			Source:      Attribute(b, "Provider", "Name"),
			EventID:     ElementText(b, "EventID"),
			TimeCreated: Attribute(b, "TimeCreated", "SystemTime"),
			Message:     ElementText(b, "Data"),
		})
	}
	return events
}
