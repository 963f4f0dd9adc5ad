// Package export writes reports and distance series to files other tools
// can read.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/trajprox/internal/pipeline"
	"github.com/san-kum/trajprox/internal/proximity"
)

// JSON writes the report, series included, as indented JSON.
func JSON(w io.Writer, report *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// CSV writes one row per node: node, time, then one column per label.
func CSV(w io.Writer, series *proximity.Series, dt float64) error {
	cw := csv.NewWriter(w)

	var labels []string
	if series.Len() > 0 {
		labels = series.Labels()
	}
	if err := cw.Write(append([]string{"node", "time"}, labels...)); err != nil {
		return err
	}

	for i := 0; i < series.NodeCount(); i++ {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(float64(i)*dt, 'f', 6, 64)}
		for _, label := range labels {
			values, _ := series.Get(label)
			row = append(row, strconv.FormatFloat(values[i], 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
