// Package projector turns a parsed record into a positional sheet row.
package projector

import (
	"kasbot/internal/entity"
	"kasbot/internal/models"
)

// Project maps the record into one cell per header, in header order. A
// header with no resolved entity, or a resolved entity the record has no
// value for, yields an empty cell. The result always has exactly one cell
// per header.
func Project(record models.Record, headers []string, active entity.ActiveMap) []string {
	byHeader := active.Inverse()

	row := make([]string, len(headers))
	for i, header := range headers {
		if e, ok := byHeader[header]; ok {
			row[i] = record.Format(e)
		}
	}
	return row
}
