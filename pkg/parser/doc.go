// Package parser turns the free-text output of the inventory command-line
// tools into rows.
//
// Three readers are provided:
//
//   - ParseCSVLine and Header read the quoted-CSV dialect printed by
//     schtasks /FO CSV. Header columns are located once per output by
//     substring match so decorated header names still resolve.
//   - SplitEvents, ElementText, Attribute and ParseEvents scan the fixed
//     record shape printed by wevtutil /f:xml. This is a tag scanner, not an
//     XML parser: malformed input yields empty fields, never an error.
//   - Parser splits command output into trimmed lines or key/value maps.
//
// Usage:
//
//	hdr := parser.NewHeader(parser.ParseCSVLine(lines[0]))
//	for _, l := range lines[1:] {
//	    row := parser.ParseCSVLine(l)
//	    name := hdr.Get(row, "TaskName")
//	}
package parser
