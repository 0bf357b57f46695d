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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvents_Scenario(t *testing.T) {
	xml := `<Event xmlns=...><System><Level>2</Level><Provider Name='X'/><EventID>17</EventID></System></Event>`

	events := ParseEvents(xml)
	require.Len(t, events, 1)
	assert.Equal(t, "Error", events[0].Level)
	assert.Equal(t, "X", events[0].Source)
	assert.Equal(t, "17", events[0].EventID)
	assert.Empty(t, events[0].Message)
}

func TestParseEvents(t *testing.T) {
	xml := `<Event xmlns='http://schemas.microsoft.com/win/2004/08/events/event'><System>` +
		`<Provider Name="Service Control Manager" Guid="{555908d1}"/>` +
		`<EventID Qualifiers='49152'>7000</EventID><Level>1</Level>` +
		`<TimeCreated SystemTime='2026-10-18T08:00:00.0000000Z'/></System>` +
		`<EventData><Data Name='param1'>Spooler</Data></EventData></Event>` +
		`<Event xmlns='http://schemas.microsoft.com/win/2004/08/events/event'><System>` +
		`<Provider Name='App'/><EventID>1</EventID><Level>4</Level></System></Event>` +
		`<Event xmlns='http://schemas.microsoft.com/win/2004/08/events/event'><System>` +
		`<Provider Name='NoLevel'/><EventID>2</EventID></System></Event>`

	events := ParseEvents(xml)
	require.Len(t, events, 2)

	assert.Equal(t, EventEntry{
		Level:       "Critical",
		Source:      "Service Control Manager",
		EventID:     "7000",
		TimeCreated: "2026-10-18T08:00:00.0000000Z",
		Message:     "Spooler",
	}, events[0])
	assert.Equal(t, "4", events[1].Level)
	assert.Equal(t, "App", events[1].Source)
}

func TestParseEvents_Empty(t *testing.T) {
	assert.Empty(t, ParseEvents(""))
	assert.Empty(t, ParseEvents("   \r\n"))
	assert.Empty(t, ParseEvents("garbage without events"))
}

func TestElementText(t *testing.T) {
	tests := []struct {
		name  string
		block string
		tag   string
		want  string
	}{
		{"simple", "<Level>2</Level>", "Level", "2"},
		{"trimmed", "<Data>  msg \n</Data>", "Data", "msg"},
		{"first occurrence", "<Data>a</Data><Data>b</Data>", "Data", "a"},
		{"with attributes", "<EventID Qualifiers='0'>17</EventID>", "EventID", "17"},
		{"prefix not matched", "<LevelName>x</LevelName><Level>3</Level>", "Level", "3"},
		{"unterminated", "<Level>2", "Level", ""},
		{"self closing", "<Level/>", "Level", ""},
		{"missing", "<Other>1</Other>", "Level", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElementText(tt.block, tt.tag))
		})
	}
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{"single quotes", "<Provider Name='X'/>", "X"},
		{"double quotes", `<Provider Name="Y" Guid="{1}"/>`, "Y"},
		{"other attribute first", `<Provider Guid='{1}' Name='Z'/>`, "Z"},
		{"missing attribute", "<Provider Guid='{1}'/>", ""},
		{"unterminated value", "<Provider Name='X/>", ""},
		{"missing element", "<System/>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Attribute(tt.block, "Provider", "Name"))
		})
	}
}

func TestSplitEvents(t *testing.T) {
	blocks := SplitEvents(`<Event xmlns='a'>1</Event>  <Event xmlns='b'>2</Event>`)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "1")
	assert.Contains(t, blocks[1], "2")
}
