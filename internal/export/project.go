// Package export projects extraction results into drawable annotation
// lists and serialized payloads. Everything here is a pure function of
// its inputs.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/extract"
)

// Annotations returns the combined overlay list: one purple outline per
// table in document order, followed by the metric annotations in the
// order the engine produced them. Tables without a position yield a
// non-drawable annotation that renderers skip.
func Annotations(tables []doctags.Table, metricAnns []extract.Annotation) []extract.Annotation {
	out := make([]extract.Annotation, 0, len(tables)+len(metricAnns))
	for i := range tables {
		out = append(out, extract.Annotation{
			Box:    tables[i].Box,
			Label:  fmt.Sprintf("Table %d", i+1),
			Source: extract.SourceTable,
			Color:  extract.ColorPurple,
		})
	}
	return append(out, metricAnns...)
}

// metricBlockColumns are the fixed columns of the key-metrics CSV block.
var metricBlockColumns = []string{"Data_Type", "Metric", "Value"}

// CSV flattens metrics and tables into a single table. The key-metrics
// block comes first, then each non-empty table's rows tagged
// "Table_<n>". Column names are the outer-join union across blocks; rows
// from blocks lacking a column leave it blank. Empty tables contribute
// neither rows nor columns.
func CSV(metrics *extract.MetricSet, tables []doctags.Table) (string, error) {
	if metrics == nil {
		metrics = extract.NewMetricSet()
	}

	columns := append([]string{}, metricBlockColumns...)
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		seen[c] = i
	}
	for i := range tables {
		if len(tables[i].Rows) == 0 {
			continue
		}
		for _, c := range tables[i].Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", err
	}

	for _, name := range metrics.Names() {
		row := make([]string, len(columns))
		row[0] = "Key Metrics"
		row[1] = name
		row[2], _ = metrics.Get(name)
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	for ti := range tables {
		tbl := &tables[ti]
		if len(tbl.Rows) == 0 {
			continue
		}
		tag := fmt.Sprintf("Table_%d", ti+1)
		for _, cells := range tbl.Rows {
			row := make([]string, len(columns))
			row[0] = tag
			for ci, col := range tbl.Columns {
				if ci < len(cells) {
					row[seen[col]] = cells[ci]
				}
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rowRecord maps a table's column names to one row's cell values,
// marshaling keys in column order.
type rowRecord struct {
	columns []string
	cells   []string
}

func (r rowRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		var cell string
		if i < len(r.cells) {
			cell = r.cells[i]
		}
		v, err := json.Marshal(cell)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type jsonPayload struct {
	KeyMetrics *extract.MetricSet       `json:"key_metrics"`
	Tables     []map[string][]rowRecord `json:"tables"`
}

// JSON renders the hierarchical export payload, pretty-printed, with
// key_metrics before tables and per-table row records keyed by column
// name. Empty tables are omitted.
func JSON(metrics *extract.MetricSet, tables []doctags.Table) (string, error) {
	if metrics == nil {
		metrics = extract.NewMetricSet()
	}
	payload := jsonPayload{
		KeyMetrics: metrics,
		Tables:     make([]map[string][]rowRecord, 0, len(tables)),
	}
	for ti := range tables {
		tbl := &tables[ti]
		if len(tbl.Rows) == 0 {
			continue
		}
		records := make([]rowRecord, len(tbl.Rows))
		for ri, cells := range tbl.Rows {
			records[ri] = rowRecord{columns: tbl.Columns, cells: cells}
		}
		payload.Tables = append(payload.Tables, map[string][]rowRecord{
			fmt.Sprintf("table_%d", ti+1): records,
		})
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
