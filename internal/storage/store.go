package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/demsim/internal/config"
	"github.com/san-kum/demsim/internal/dem"
	"github.com/san-kum/demsim/internal/snapshot"
)

const (
	metadataFile = "metadata.json"
	dataFile     = "data"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Scenario  *config.Config     `json:"scenario"`
	Particles int                `json:"particles"`
	SimTime   float64            `json:"sim_time"`
	Stats     dem.Stats          `json:"stats"`
	Metrics   map[string]float64 `json:"metrics"`
	NonFinite []string           `json:"non_finite,omitempty"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Error     string             `json:"error,omitempty"`
}

// Run is a run directory whose snapshot stream is still being written.
type Run struct {
	ID   string
	dir  string
	data *os.File
}

// Create makes a new run directory named <name>_<unix> and opens its
// snapshot stream. A numeric suffix is added if that directory exists.
func (s *Store) Create(name string) (*Run, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}

	dir := filepath.Join(s.baseDir, runID)
	f, err := os.Create(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, err
	}

	return &Run{ID: runID, dir: dir, data: f}, nil
}

// Data is where the snapshot stream goes.
func (r *Run) Data() io.Writer {
	return r.data
}

// Finish closes the stream and writes the metadata. Non-finite metric
// values cannot be encoded as JSON, so they are listed by name instead.
func (r *Run) Finish(meta RunMetadata) error {
	if err := r.data.Close(); err != nil {
		return err
	}

	meta.ID = r.ID
	metrics := make(map[string]float64, len(meta.Metrics))
	for name, v := range meta.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			meta.NonFinite = append(meta.NonFinite, name)
			continue
		}
		metrics[name] = v
	}
	sort.Strings(meta.NonFinite)
	meta.Metrics = metrics

	metaFile, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns the finished runs, oldest first. Directories without
// readable metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) OpenData(runID string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, dataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) LoadFrames(runID string) ([]*snapshot.Frame, error) {
	rc, err := s.OpenData(runID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	frames, err := snapshot.NewReader(rc).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return frames, nil
}
