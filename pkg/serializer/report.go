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


package serializer

import (
	"fmt"
	"html/template"
	"io"
	"reflect"
	"strings"
)

const summarySection = "summary"

// section is one titled group of report rows.
type section struct {
	Title string
	Rows  []reportRow
}

// reportRow is a row with its value already rendered.
type reportRow struct {
	Key   string
	Value string
}

// report is the document rendered by the markdown and html writers.
type report struct {
	Title    string
	Sections []section
}

// buildReport groups the leaves of v into sections. Inline and scalar
// top-level fields form the summary; every other top-level field gets its
// own section in declaration order. Nil top-level fields are left out.
func buildReport(v any) report {
	val := reflect.ValueOf(v)
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return report{Title: "Report"}
		}
		val = val.Elem()
	}

	rep := report{Title: "Report"}
	if !val.IsValid() {
		return rep
	}
	if name := val.Type().Name(); name != "" {
		rep.Title = name
	}

	if val.Kind() != reflect.Struct || val.Type() == timeType {
		var rows []row
		flattenValue(&rows, val, "")
		if len(rows) > 0 {
			rep.Sections = append(rep.Sections, section{Title: summarySection, Rows: renderRows(rows)})
		}
		return rep
	}

	var summary []row
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, inline := fieldName(field)
		fv := val.Field(i)
		switch {
		case name == "-":
			continue
		case inline:
			flattenValue(&summary, fv, "")
		case isNil(fv):
			continue
		case isComposite(fv):
			var rows []row
			flattenValue(&rows, fv, "")
			rep.Sections = append(rep.Sections, section{Title: name, Rows: renderRows(rows)})
		default:
			flattenValue(&summary, fv, name)
		}
	}
	if len(summary) > 0 {
		rep.Sections = append([]section{{Title: summarySection, Rows: renderRows(summary)}}, rep.Sections...)
	}
	return rep
}

func isNil(v reflect.Value) bool {
	//nolint:exhaustive // only nillable kinds matter
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func isComposite(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Type() == timeType {
		return false
	}
	//nolint:exhaustive // everything else is a leaf
	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Array:
		return true
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

func renderRows(rows []row) []reportRow {
	out := make([]reportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, reportRow{Key: r.key, Value: reportValue(r.value)})
	}
	return out
}

func reportValue(v any) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprint(v)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
)

func (w *Writer) serializeMarkdown(v any) error {
	rep := buildReport(v)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", markdownEscaper.Replace(rep.Title))
	for _, s := range rep.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", markdownEscaper.Replace(s.Title))
		b.WriteString("| Field | Value |\n")
		b.WriteString("| --- | --- |\n")
		for _, r := range s.Rows {
			fmt.Fprintf(&b, "| %s | %s |\n", markdownEscaper.Replace(r.Key), markdownEscaper.Replace(r.Value))
		}
	}

	if _, err := io.WriteString(w.output, b.String()); err != nil {
		return fmt.Errorf("failed to serialize to markdown: %w", err)
	}
	return nil
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: 'Segoe UI', sans-serif; background: #111; color: #f5f5f5; padding: 2rem; line-height: 1.6; }
.section { margin-bottom: 2rem; background: #1a1a1a; border: 1px solid #262626; border-radius: 0.75rem; padding: 1.5rem; }
.section h2 { font-size: 1.1rem; margin-bottom: 1rem; color: #60a5fa; }
table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
th { text-align: left; padding: 0.5rem; background: #1f1f1f; color: #888; text-transform: uppercase; }
td { padding: 0.5rem; border-bottom: 1px solid #262626; color: #ccc; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- range .Sections}}
<div class="section">
<h2>{{.Title}}</h2>
<table>
<thead><tr><th>Field</th><th>Value</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{- end}}
</tbody>
</table>
</div>
{{- end}}
</body>
</html>
`))

func (w *Writer) serializeHTML(v any) error {
	if err := htmlReport.Execute(w.output, buildReport(v)); err != nil {
		return fmt.Errorf("failed to serialize to HTML: %w", err)
	}
	return nil
}
