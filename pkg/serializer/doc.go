// Package serializer writes cirg documents as JSON, YAML, a flat table or a
// Markdown or HTML report, and reads JSON or YAML documents back.
//
// # Formats
//
//   - json: indented, for machine consumers
//   - yaml: gopkg.in/yaml.v3, for humans and diffs
//   - table: one FIELD / VALUE row per leaf, keyed by the serialized field
//     names (computer.name, disk.physicalDisks.[0].sizeGb). Write-only.
//   - markdown, html: a report with a summary section for the header and
//     scalar fields, then one Field / Value section per remaining top-level
//     field. Nil fields are omitted. Write-only.
//
// # Writing
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "inventory.yaml")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//	    return err
//	}
//
// NewFileWriterOrStdout writes to stdout when the path is empty.
//
// # Reading
//
// FromFile loads a document, detecting the format from the file extension:
//
//	cfg, err := serializer.FromFile[config.Config]("cirg.yaml")
package serializer
