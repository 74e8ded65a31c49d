// Package storage archives run reports on disk: a metadata file with the
// scene, seed and final metrics, plus CSV series for charting later. It
// never stores world state and a run cannot be resumed from it.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	countsFile     = "counts.csv"
	trajectoryFile = "trajectory.csv"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is everything Save writes for one run. Trajectory is optional.
type Run struct {
	Scene      string
	Seed       int64
	Width      float64
	Height     float64
	Result     *sim.Result
	Trajectory []dynamo.Vec2
}

// Save writes run under a fresh ID and returns it.
func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     run.Scene,
		Timestamp: now,
		Seed:      run.Seed,
		Ticks:     run.Result.Ticks,
		Width:     run.Width,
		Height:    run.Height,
		Metrics:   run.Result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	counts := make([][]string, 0, len(run.Result.EntityCounts)+1)
	counts = append(counts, []string{"tick", "entities", "particles"})
	for i := range run.Result.EntityCounts {
		counts = append(counts, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(run.Result.EntityCounts[i]),
			strconv.Itoa(run.Result.ParticleCounts[i]),
		})
	}
	if err := writeCSV(filepath.Join(runDir, countsFile), counts); err != nil {
		return "", err
	}

	if len(run.Trajectory) > 0 {
		rows := make([][]string, 0, len(run.Trajectory)+1)
		rows = append(rows, []string{"tick", "x", "y"})
		for i, p := range run.Trajectory {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
			})
		}
		if err := writeCSV(filepath.Join(runDir, trajectoryFile), rows); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadCounts returns the per-tick entity and particle counts.
func (s *Store) LoadCounts(runID string) (entities, particles []float64, err error) {
	cols, err := readColumns(filepath.Join(s.baseDir, runID, countsFile), 3)
	if err != nil {
		return nil, nil, err
	}
	return cols[1], cols[2], nil
}

// LoadTrajectory returns the recorded positions, if the run kept any.
func (s *Store) LoadTrajectory(runID string) ([]dynamo.Vec2, error) {
	cols, err := readColumns(filepath.Join(s.baseDir, runID, trajectoryFile), 3)
	if err != nil {
		return nil, err
	}
	pts := make([]dynamo.Vec2, len(cols[1]))
	for i := range pts {
		pts[i] = dynamo.V(cols[1][i], cols[2][i])
	}
	return pts, nil
}

// readColumns parses a headed numeric CSV into n columns. Malformed rows are
// skipped.
func readColumns(path string, n int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cols := make([][]float64, n)
rows:
	for i := 1; i < len(records); i++ {
		if len(records[i]) < n {
			continue
		}
		vals := make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(records[i][j], 64)
			if err != nil {
				continue rows
			}
			vals[j] = v
		}
		for j, v := range vals {
			cols[j] = append(cols[j], v)
		}
	}
	return cols, nil
}

// ExportData is the JSON form of a run for other tools.
type ExportData struct {
	RunMetadata
	EntityCounts   []int         `json:"entity_counts"`
	ParticleCounts []int         `json:"particle_counts"`
	Trajectory     []dynamo.Vec2 `json:"trajectory,omitempty"`
}

// ExportJSON writes a saved run as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ents, parts, err := s.LoadCounts(runID)
	if err != nil {
		return err
	}
	data := ExportData{RunMetadata: *meta, EntityCounts: toInts(ents), ParticleCounts: toInts(parts)}
	if traj, err := s.LoadTrajectory(runID); err == nil {
		data.Trajectory = traj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func toInts(xs []float64) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}
