package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/sim"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// BodyMeta is the static part of a body recorded with a run.
type BodyMeta struct {
	Name   string  `json:"name"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	FixedStep   float64            `json:"fixed_step"`
	G           float64            `json:"g"`
	Softening   float64            `json:"softening"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Bodies      []BodyMeta         `json:"bodies"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewMetadata(scenario, integrator string, fixedStep, duration float64, bodies body.Set) RunMetadata {
	meta := RunMetadata{
		Scenario:   scenario,
		Integrator: integrator,
		FixedStep:  fixedStep,
		Duration:   duration,
		Bodies:     make([]BodyMeta, len(bodies)),
	}
	for i, b := range bodies {
		meta.Bodies[i] = BodyMeta{Name: b.Name, Mass: b.Mass, Radius: b.Radius, Color: b.Color.Hex()}
	}
	return meta
}

// BodyNames lists the recorded bodies in state order.
func (m *RunMetadata) BodyNames() []string {
	names := make([]string, len(m.Bodies))
	for i, b := range m.Bodies {
		names[i] = b.Name
	}
	return names
}

// Save writes metadata.json and states.csv under a fresh run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = finite(result.Metrics)
	if math.IsNaN(meta.EnergyDrift) || math.IsInf(meta.EnergyDrift, 0) {
		meta.EnergyDrift = 0
	}

	if len(result.States) > 0 && result.States[0].Bodies() != len(meta.Bodies) {
		return "", fmt.Errorf("%d bodies in metadata, %d in states: %w",
			len(meta.Bodies), result.States[0].Bodies(), dynamo.ErrDimensionMismatch)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	err := writeJSON(filepath.Join(runDir, "metadata.json"), meta)
	if err == nil {
		err = writeStates(filepath.Join(runDir, "states.csv"), meta.BodyNames(), result)
	}
	if err != nil {
		// Never leave a run with only one of its files.
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

// finite drops values encoding/json cannot represent.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
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

func writeStates(path string, names []string, result *sim.Result) error {
	if len(result.Times) != len(result.States) {
		return fmt.Errorf("%d times for %d states: %w", len(result.Times), len(result.States), dynamo.ErrDimensionMismatch)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for _, name := range names {
		header = append(header, name+"_x", name+"_y", name+"_vx", name+"_vy")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, x := range result.States {
		row := make([]string, 0, len(x)+1)
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', -1, 64))
		for _, val := range x {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: row %d: %w", runID, i+2, err)
		}

		x := make(dynamo.State, len(record)-1)
		for j, field := range record[1:] {
			if x[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("%s: row %d: %w", runID, i+2, err)
			}
		}
		times = append(times, t)
		states = append(states, x)
	}

	return states, times, nil
}
