package airtable

import (
	"fmt"
	"sort"
	"strings"
)

// A Record is a single row of an Airtable table.
// Fields hold the cell values keyed by column name.
type Record struct {
	ID          string                 `json:"id"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime string                 `json:"createdTime,omitempty"`
}

// Field returns the value of the given column as a string.
// It returns an empty string when the cell is absent or not textual.
func (r Record) Field(key string) string {
	value, ok := r.Fields[key].(string)
	if !ok {
		return ""
	}
	return value
}

// AndEquals builds an Airtable filterByFormula that matches records whose
// columns all equal the given values. Keys are sorted so the formula is
// deterministic.
func AndEquals(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	for _, key := range keys {
		conditions = append(conditions, fmt.Sprintf(`%s = "%s"`, key, escape(fields[key])))
	}
	return fmt.Sprintf("AND(%s)", strings.Join(conditions, ", "))
}

func escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}
