package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
)

// Store persists experiment runs under a base directory, one
// subdirectory per run holding a metadata file and the run's data
// tables.
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
	ID         string         `json:"id"`
	Experiment string         `json:"experiment"`
	Timestamp  time.Time      `json:"timestamp"`
	Config     *config.Config `json:"config"`
}

// Save writes the result of one run and returns its ID.
func (s *Store) Save(cfg *config.Config, res *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", res.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Experiment: res.Name,
		Timestamp:  time.Now(),
		Config:     cfg,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	switch {
	case res.Signal != nil:
		rows := make([][]string, 0, len(res.Signal.Freqs))
		for i := range res.Signal.Freqs {
			rows = append(rows, []string{
				strconv.FormatFloat(res.Signal.Freqs[i], 'e', 9, 64),
				strconv.FormatFloat(res.Signal.Coherence[i], 'f', 9, 64),
			})
		}
		if err := writeCSV(filepath.Join(runDir, "signal.csv"),
			[]string{"frequency", "coherence"}, rows); err != nil {
			return "", err
		}
	case res.Fidelities != nil:
		rows := make([][]string, 0, len(res.Fidelities))
		for _, f := range res.Fidelities {
			rows = append(rows, []string{
				strconv.Itoa(f.Index),
				strconv.FormatFloat(f.Fidelity, 'f', 9, 64),
			})
		}
		if err := writeCSV(filepath.Join(runDir, "fidelities.csv"),
			[]string{"nucleus", "fidelity"}, rows); err != nil {
			return "", err
		}
	case res.Report != nil:
		if err := writeJSON(filepath.Join(runDir, "report.json"), res.Report); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every stored run.
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
	return runs, nil
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

// LoadSignal reads a stored coherence curve back.
func (s *Store) LoadSignal(runID string) (freqs, coherence []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "signal.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		f, err := strconv.ParseFloat(records[i][0], 64)
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			continue
		}
		freqs = append(freqs, f)
		coherence = append(coherence, c)
	}
	return freqs, coherence, nil
}

// ExportJSON writes a full result to w-like destinations; path "-"
// writes to stdout.
func ExportJSON(path string, meta RunMetadata, res *experiment.Result) error {
	payload := struct {
		RunMetadata
		Signal     any `json:"signal,omitempty"`
		Fidelities any `json:"fidelities,omitempty"`
		Report     any `json:"report,omitempty"`
	}{RunMetadata: meta}
	if res.Signal != nil {
		payload.Signal = res.Signal
	}
	if res.Fidelities != nil {
		payload.Fidelities = res.Fidelities
	}
	if res.Report != nil {
		payload.Report = res.Report
	}

	out := os.Stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
