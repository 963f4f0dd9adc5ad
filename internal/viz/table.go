package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/trajprox/internal/analysis"
)

// SummaryTable lays out one row per series. Rows whose minimum falls below
// threshold are highlighted.
func SummaryTable(stats []analysis.Stats, threshold float64) string {
	rows := make([][]string, len(stats))
	for i, st := range stats {
		first := "-"
		if st.FirstViolation >= 0 {
			first = strconv.Itoa(st.FirstViolation)
		}
		rows[i] = []string{
			st.Label,
			fmt.Sprintf("%.4f", st.Min),
			fmt.Sprintf("%d (%.2fs)", st.ArgMin, st.TimeOfMin),
			fmt.Sprintf("%.4f", st.Max),
			fmt.Sprintf("%.4f", st.Mean),
			strconv.Itoa(st.BelowThreshold),
			strconv.Itoa(st.Crossings),
			first,
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))).
		Headers("SERIES", "MIN", "AT", "MAX", "MEAN", "BELOW", "ENTRIES", "FIRST").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < len(stats) && stats[row].Nodes > 0 && stats[row].Min < threshold {
				return cell.Foreground(lipgloss.Color("#ff4444"))
			}
			return cell
		}).
		String()
}

// ScalarTable lists named values sorted by name.
func ScalarTable(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	for i, k := range names {
		rows[i] = []string{k, strconv.FormatFloat(values[k], 'g', 6, 64)}
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return MetricLabel.PaddingRight(2)
			}
			return MetricValue
		}).
		String()
}
