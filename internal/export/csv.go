// Package export renders a benchmark run as a CSV payload for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/kalibra-labs/kalibra-go/internal/domain"
)

// Columns every export starts with, in order.
var coreColumns = []string{"sceneId", "twinId"}

// Filename computes the attachment filename for an export.
func Filename(runID string, detailed bool, at time.Time) string {
	variant := "summary"
	if detailed {
		variant = "detailed"
	}
	return fmt.Sprintf("run-%s-%s-%s.csv", runID, variant, at.UTC().Format("20060102"))
}

// Write renders the run's scenarios as CSV, one row per scenario.
//
// The summary variant carries only the core columns. The detailed variant
// adds every other key seen across the run's scenarios, sorted, so the column
// set is stable for a given run regardless of which scenarios carry which
// fields.
func Write(w io.Writer, run domain.BenchmarkRun, detailed bool) error {
	columns := append([]string(nil), coreColumns...)
	if detailed {
		columns = append(columns, extraColumns(run.Scenarios)...)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for _, scenario := range run.Scenarios {
		for i, column := range columns {
			row[i] = formatValue(scenario[column])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func extraColumns(scenarios []domain.Scenario) []string {
	core := map[string]struct{}{}
	for _, column := range coreColumns {
		core[column] = struct{}{}
	}
	seen := map[string]struct{}{}
	for _, scenario := range scenarios {
		for key := range scenario {
			if _, ok := core[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

func formatValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case int:
		return strconv.Itoa(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case json.Number:
		return tv.String()
	default:
		// Structured values are embedded as compact JSON.
		raw, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprintf("%v", tv)
		}
		return string(raw)
	}
}
