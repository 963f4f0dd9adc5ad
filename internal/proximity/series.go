package proximity

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Series maps labels to per-node distances and remembers the order in which
// labels were declared.
type Series struct {
	labels []string
	values map[string][]float64
}

func NewSeries() *Series {
	return &Series{values: make(map[string][]float64)}
}

// Set stores values under label. A new label is appended to the order.
func (s *Series) Set(label string, values []float64) {
	if _, ok := s.values[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.values[label] = values
}

func (s *Series) Get(label string) ([]float64, bool) {
	v, ok := s.values[label]
	return v, ok
}

func (s *Series) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len is the number of labelled series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// NodeCount is the length of every series.
func (s *Series) NodeCount() int {
	if s.Len() == 0 {
		return 0
	}
	return len(s.values[s.labels[0]])
}

// Merge copies every series of o into s, keeping o's order.
func (s *Series) Merge(o *Series) {
	if o == nil {
		return
	}
	for _, label := range o.labels {
		s.Set(label, o.values[label])
	}
}

// Map returns the label to values mapping. The slices are shared.
func (s *Series) Map() map[string][]float64 {
	out := make(map[string][]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

type seriesJSON struct {
	Labels []string             `json:"labels"`
	Values map[string][]float64 `json:"values"`
}

func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesJSON{Labels: s.labels, Values: s.values})
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw seriesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh := NewSeries()
	for _, label := range raw.Labels {
		v, ok := raw.Values[label]
		if !ok {
			return errors.Errorf("proximity: series %q has no values", label)
		}
		fresh.Set(label, v)
	}
	*s = *fresh
	return nil
}
