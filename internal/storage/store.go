// Package storage keeps analysis reports on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/export"
	"github.com/san-kum/trajprox/internal/metrics"
	"github.com/san-kum/trajprox/internal/pipeline"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/record"
	"github.com/san-kum/trajprox/internal/traj"
)

const (
	metadataFile  = "metadata.json"
	distancesFile = "distances.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is everything about a stored report except its distances.
type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Robot        string             `json:"robot"`
	Timestamp    time.Time          `json:"timestamp"`
	Dims         traj.Dims          `json:"dims"`
	Dt           float64            `json:"dt"`
	Threshold    float64            `json:"safety_threshold"`
	Nodes        int                `json:"nodes"`
	Results      *record.Results    `json:"results"`
	PairLabels   []string           `json:"pair_labels"`
	TargetLabels []string           `json:"target_labels"`
	PairStats    []analysis.Stats   `json:"pair_stats"`
	TargetStats  []analysis.Stats   `json:"target_stats"`
	Metrics      map[string]float64 `json:"metrics"`
	Timing       metrics.Timing     `json:"timing"`
}

func labels(s *proximity.Series) []string {
	if s.Len() == 0 {
		return []string{}
	}
	return s.Labels()
}

// Save writes report under a fresh id of the form <name>_<8 hex digits>,
// records the id on the report and returns it.
func (s *Store) Save(report *pipeline.Report) (string, error) {
	runID := fmt.Sprintf("%s_%s", report.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	nodes := 0
	if report.Results != nil {
		nodes = report.Results.Nnodes
	}
	meta := RunMetadata{
		ID:           runID,
		Name:         report.Name,
		Robot:        report.Robot,
		Timestamp:    report.CreatedAt,
		Dims:         report.Dims,
		Dt:           report.Dt,
		Threshold:    report.Threshold,
		Nodes:        nodes,
		Results:      report.Results,
		PairLabels:   labels(report.Pairs),
		TargetLabels: labels(report.Targets),
		PairStats:    report.PairStats,
		TargetStats:  report.TargetStat,
		Metrics:      report.Metrics,
		Timing:       report.Timing,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "writing metadata")
	}

	csvFile, err := os.Create(filepath.Join(runDir, distancesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.CSV(csvFile, report.Series(), report.Dt); err != nil {
		return "", errors.Wrap(err, "writing distances")
	}

	report.ID = runID
	return runID, nil
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || runID == "." || runID == ".." {
		return "", errors.Errorf("invalid run id %q", runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) readMetadata(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s: parsing metadata", runID)
	}
	return &meta, nil
}

// Load rebuilds the stored report. The trajectory itself is not stored, so
// Trajectory and Controls are nil.
func (s *Store) Load(runID string) (*pipeline.Report, error) {
	meta, err := s.readMetadata(runID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading run %s", runID)
	}
	series, _, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}

	split := func(names []string) (*proximity.Series, error) {
		out := proximity.NewSeries()
		for _, name := range names {
			values, ok := series.Get(name)
			if !ok {
				return nil, errors.Errorf("run %s: no distances for %q", runID, name)
			}
			out.Set(name, values)
		}
		return out, nil
	}
	pairs, err := split(meta.PairLabels)
	if err != nil {
		return nil, err
	}
	targets, err := split(meta.TargetLabels)
	if err != nil {
		return nil, err
	}

	return &pipeline.Report{
		ID:         meta.ID,
		Name:       meta.Name,
		Robot:      meta.Robot,
		CreatedAt:  meta.Timestamp,
		Dims:       meta.Dims,
		Dt:         meta.Dt,
		Threshold:  meta.Threshold,
		Results:    meta.Results,
		Pairs:      pairs,
		Targets:    targets,
		PairStats:  meta.PairStats,
		TargetStat: meta.TargetStats,
		Metrics:    meta.Metrics,
		Timing:     meta.Timing,
	}, nil
}

// LoadSeries reads the distances of a run along with the node times.
func (s *Store) LoadSeries(runID string) (*proximity.Series, []float64, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(filepath.Join(dir, distancesFile))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading run %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "run %s: reading distances", runID)
	}
	if len(rows) == 0 {
		return nil, nil, errors.Errorf("run %s: distances file has no header", runID)
	}

	header := rows[0]
	if len(header) < 2 || header[0] != "node" || header[1] != "time" {
		return nil, nil, errors.Errorf("run %s: unexpected distances header %v", runID, header)
	}
	cols := header[2:]
	values := make([][]float64, len(cols))
	times := make([]float64, 0, len(rows)-1)

	for i, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "run %s: row %d", runID, i)
		}
		times = append(times, t)
		for j := range cols {
			v, err := strconv.ParseFloat(row[j+2], 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "run %s: row %d, %s", runID, i, cols[j])
			}
			values[j] = append(values[j], v)
		}
	}

	series := proximity.NewSeries()
	for j, label := range cols {
		if values[j] == nil {
			values[j] = []float64{}
		}
		series.Set(label, values[j])
	}
	return series, times, nil
}
