// Package storage persists evaluation runs under a data directory, one
// subdirectory per run with a metadata document and per-gas curve files.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/gwplab/internal/export"
	"github.com/san-kum/gwplab/internal/forcing"
	"github.com/san-kum/gwplab/internal/gwp"
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

// RunMetadata describes one saved evaluation, results included: the table
// is small, so it lives in the metadata document rather than a side file.
type RunMetadata struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Reference  string            `json:"reference"`
	Gases      []string          `json:"gases"`
	Horizons   []float64         `json:"horizons"`
	Quadrature string            `json:"quadrature"`
	Samples    int               `json:"samples,omitempty"`
	PulseKg    float64           `json:"pulse_mass_kg"`
	Results    []export.TableRow `json:"results"`
}

// Save writes a run directory with metadata.json and one curve CSV per
// supplied curve, returning the generated run id. Ids are second-stamped;
// a second save in the same second gets a counter suffix rather than
// overwriting the first.
func (s *Store) Save(meta RunMetadata, table map[gwp.Key]gwp.Entry, curves []*forcing.Curve) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	base := fmt.Sprintf("run_%d", time.Now().Unix())
	runID := base
	var runDir string
	for n := 2; ; n++ {
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Results = export.TableRows(table)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for _, c := range curves {
		f, err := os.Create(filepath.Join(runDir, curveFile(c.GasID)))
		if err != nil {
			return "", err
		}
		if err := export.CurveCSV(f, c); err != nil {
			f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// LoadCurve reads one gas's saved forcing curve from a run.
func (s *Store) LoadCurve(runID, gasID string) (*forcing.Curve, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, curveFile(gasID)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadCurveCSV(f, gasID)
}

// LoadCurves reads every curve file present for a run, in gas order.
func (s *Store) LoadCurves(runID string, gasIDs []string) ([]*forcing.Curve, error) {
	var curves []*forcing.Curve
	for _, id := range gasIDs {
		c, err := s.LoadCurve(runID, id)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		curves = append(curves, c)
	}
	return curves, nil
}

// WriteJSON streams a run's metadata document.
func WriteJSON(w io.Writer, meta *RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func curveFile(gasID string) string {
	return "curve_" + gasID + ".csv"
}
