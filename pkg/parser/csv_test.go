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
)

func TestParseCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"quoted comma and escaped quote", `a,"b,c","d""e"`, []string{"a", "b,c", `d"e`}},
		{"plain", "x,y,z", []string{"x", "y", "z"}},
		{"empty line", "", []string{""}},
		{"trailing empty field", `"a",`, []string{"a", ""}},
		{"crlf", "\"a\",\"b\"\r\n", []string{"a", "b"}},
		{"quote mid field", `"x"y,z`, []string{"xy", "z"}},
		{"space before quoted field", `a, "b,c"`, []string{"a", " b,c"}},
		{"unterminated quote", `a,"b,c`, []string{"a", "b,c"}},
		{"multibyte", `"Mise à jour","Prêt"`, []string{"Mise à jour", "Prêt"}},
		{"schtasks row", `"HOST","\Vendor\Update","N/A","Ready"`, []string{"HOST", `\Vendor\Update`, "N/A", "Ready"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSVLine(tt.line))
		})
	}
}

func TestHeader(t *testing.T) {
	h := NewHeader(ParseCSVLine(`"HostName","TaskName","Next Run Time","Status","Task To Run"`))

	assert.Equal(t, 1, h.Index("TaskName"))
	assert.Equal(t, 2, h.Index("Next Run"))
	assert.Equal(t, -1, h.Index("Author"))

	row := ParseCSVLine(`"PC","\Backup","1/1/2026 3:00:00 AM","Ready"`)
	assert.Equal(t, `\Backup`, h.Get(row, "TaskName"))
	assert.Equal(t, "Ready", h.Get(row, "Status"))
	assert.Equal(t, "", h.Get(row, "Task To Run"), "short row")
	assert.Equal(t, "", h.Get(row, "Author"), "unknown column")
}

func TestHeader_IsRepeat(t *testing.T) {
	fields := []string{"HostName", "TaskName"}
	h := NewHeader(fields)
	assert.True(t, h.IsRepeat([]string{"HostName", "TaskName"}))
	assert.False(t, h.IsRepeat([]string{"PC", `\Backup`}))
	assert.False(t, h.IsRepeat([]string{"HostName"}))
}
