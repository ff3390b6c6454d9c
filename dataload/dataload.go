// Package dataload supplies store profiles and employee rosters to the
// scheduler. Two sources are provided: YAML fixture files for development
// and tests, and a SQLite database for deployments. Loading failures are
// DataLoadErrors, the only run-fatal error kind in the system.
package dataload

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/shiftmesh/roster"
)

// Source resolves the inputs of one scheduling run. Implementations must be
// safe for use across concurrent runs.
type Source interface {
	Store(id string) (roster.Store, error)
	Employees(storeID string) ([]roster.Employee, error)
}

// DataLoadError marks missing or malformed store/employee input. It is fatal
// to the run and surfaced to the caller unchanged.
type DataLoadError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *DataLoadError) Error() string {
	return fmt.Sprintf("data load from %s failed: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *DataLoadError) Unwrap() error { return e.Err }

// fixtureFile is the YAML document shape of a fixture source.
type fixtureFile struct {
	Stores    []roster.Store    `yaml:"stores"`
	Employees []fixtureEmployee `yaml:"employees"`
}

type fixtureEmployee struct {
	roster.Employee `yaml:",inline"`
	StoreID         string `yaml:"store_id"`
}

// FileSource serves stores and rosters from a single YAML fixture file,
// loaded eagerly at construction.
type FileSource struct {
	path      string
	stores    map[string]roster.Store
	employees map[string][]roster.Employee
}

// NewFileSource parses the fixture file at path. Malformed YAML, duplicate
// store IDs or structurally invalid records return a DataLoadError.
func NewFileSource(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	var doc fixtureFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}

	fs := &FileSource{path: path, stores: map[string]roster.Store{}, employees: map[string][]roster.Employee{}}
	for _, s := range doc.Stores {
		if err := validateStore(s); err != nil {
			return nil, &DataLoadError{Source: path, Err: err}
		}
		if _, dup := fs.stores[s.ID]; dup {
			return nil, &DataLoadError{Source: path, Err: fmt.Errorf("duplicate store id %q", s.ID)}
		}
		fs.stores[s.ID] = s
	}
	for _, e := range doc.Employees {
		if err := validateEmployee(e.Employee); err != nil {
			return nil, &DataLoadError{Source: path, Err: err}
		}
		fs.employees[e.StoreID] = append(fs.employees[e.StoreID], e.Employee)
	}
	for id := range fs.employees {
		sort.Slice(fs.employees[id], func(i, j int) bool { return fs.employees[id][i].ID < fs.employees[id][j].ID })
	}
	return fs, nil
}

// Store returns the store profile for id.
func (fs *FileSource) Store(id string) (roster.Store, error) {
	s, ok := fs.stores[id]
	if !ok {
		return roster.Store{}, &DataLoadError{Source: fs.path, Err: fmt.Errorf("unknown store %q", id)}
	}
	return s, nil
}

// Employees returns the roster of the given store, sorted by employee ID.
func (fs *FileSource) Employees(storeID string) ([]roster.Employee, error) {
	emps, ok := fs.employees[storeID]
	if !ok || len(emps) == 0 {
		return nil, &DataLoadError{Source: fs.path, Err: fmt.Errorf("no employees for store %q", storeID)}
	}
	out := make([]roster.Employee, len(emps))
	copy(out, emps)
	return out, nil
}

func validateStore(s roster.Store) error {
	if s.ID == "" {
		return fmt.Errorf("store with empty id")
	}
	if s.CloseHour <= s.OpenHour || s.OpenHour < 0 || s.CloseHour > 24 {
		return fmt.Errorf("store %q has invalid operating hours %d-%d", s.ID, s.OpenHour, s.CloseHour)
	}
	if len(s.Stations) == 0 {
		return fmt.Errorf("store %q has no active stations", s.ID)
	}
	return nil
}

func validateEmployee(e roster.Employee) error {
	if e.ID == "" {
		return fmt.Errorf("employee with empty id")
	}
	switch e.Type {
	case roster.FullTime, roster.PartTime, roster.Casual, roster.Manager:
	default:
		return fmt.Errorf("employee %q has unknown type %q", e.ID, e.Type)
	}
	if len(e.Stations) == 0 {
		return fmt.Errorf("employee %q has no station qualifications", e.ID)
	}
	return nil
}
