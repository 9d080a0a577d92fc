package serializer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// serializeTable renders v as a two-column FIELD/VALUE table.
// Nested structures are flattened into dotted key paths; list elements are
// addressed by index (e.g. "[0].Name").
func (w *Writer) serializeTable(v any) error {
	// Round-trip through JSON so struct tags, maps, and slices all flatten
	// the same way regardless of the concrete input type.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to flatten value for table output: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to flatten value for table output: %w", err)
	}

	var rows [][]string
	flattenValue("", decoded, &rows)

	if len(rows) == 0 {
		rows = append(rows, []string{"<empty>", ""})
	}

	table := tablewriter.NewWriter(w.out)
	table.SetHeader([]string{"FIELD", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()

	return nil
}

// flattenValue walks decoded JSON and appends leaf values as key/value rows.
// Map keys are sorted for deterministic output.
func flattenValue(prefix string, v any, rows *[][]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenValue(key, val[k], rows)
		}

	case []any:
		for i, elem := range val {
			flattenValue(fmt.Sprintf("%s[%d]", prefix, i), elem, rows)
		}

	case nil:
		*rows = append(*rows, []string{prefix, "<nil>"})

	default:
		*rows = append(*rows, []string{prefix, fmt.Sprintf("%v", val)})
	}
}
