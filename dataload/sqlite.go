package dataload

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hupe1980/shiftmesh/roster"
)

// storeRecord is the persisted shape of a store profile. Station lists are
// stored comma-separated to keep the schema trivial.
type storeRecord struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Type          string
	OpenHour      int
	CloseHour     int
	Stations      string
	WeekendUplift float64
}

func (storeRecord) TableName() string { return "stores" }

// employeeRecord is the persisted shape of a roster entry.
type employeeRecord struct {
	ID             string `gorm:"primaryKey"`
	StoreID        string `gorm:"index"`
	Name           string
	Type           string
	Stations       string
	Seniority      int
	MinWeeklyHours float64
	MaxWeeklyHours float64
	AvailableDays  string
}

func (employeeRecord) TableName() string { return "employees" }

// SQLiteSource serves stores and rosters from a SQLite database.
type SQLiteSource struct {
	db *gorm.DB
}

// NewSQLiteSource opens (and migrates) the database at path.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	if err := db.AutoMigrate(&storeRecord{}, &employeeRecord{}); err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	return &SQLiteSource{db: db}, nil
}

// Store returns the store profile for id.
func (s *SQLiteSource) Store(id string) (roster.Store, error) {
	var rec storeRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return roster.Store{}, &DataLoadError{Source: "sqlite", Err: fmt.Errorf("store %q: %w", id, err)}
	}
	store := roster.Store{
		ID:            rec.ID,
		Name:          rec.Name,
		Type:          roster.StoreType(rec.Type),
		OpenHour:      rec.OpenHour,
		CloseHour:     rec.CloseHour,
		Stations:      splitStations(rec.Stations),
		WeekendUplift: rec.WeekendUplift,
	}
	if err := validateStore(store); err != nil {
		return roster.Store{}, &DataLoadError{Source: "sqlite", Err: err}
	}
	return store, nil
}

// Employees returns the roster of the given store, sorted by employee ID.
func (s *SQLiteSource) Employees(storeID string) ([]roster.Employee, error) {
	var recs []employeeRecord
	if err := s.db.Order("id").Find(&recs, "store_id = ?", storeID).Error; err != nil {
		return nil, &DataLoadError{Source: "sqlite", Err: err}
	}
	if len(recs) == 0 {
		return nil, &DataLoadError{Source: "sqlite", Err: fmt.Errorf("no employees for store %q", storeID)}
	}
	employees := make([]roster.Employee, 0, len(recs))
	for _, rec := range recs {
		emp := roster.Employee{
			ID:             rec.ID,
			Name:           rec.Name,
			Type:           roster.EmployeeType(rec.Type),
			Stations:       splitStations(rec.Stations),
			Seniority:      rec.Seniority,
			MinWeeklyHours: rec.MinWeeklyHours,
			MaxWeeklyHours: rec.MaxWeeklyHours,
			AvailableDays:  splitWeekdays(rec.AvailableDays),
		}
		if err := validateEmployee(emp); err != nil {
			return nil, &DataLoadError{Source: "sqlite", Err: err}
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// Seed inserts or updates fixture rows, mainly for tests and local setup.
func (s *SQLiteSource) Seed(stores []roster.Store, employees map[string][]roster.Employee) error {
	for _, st := range stores {
		rec := storeRecord{
			ID:            st.ID,
			Name:          st.Name,
			Type:          string(st.Type),
			OpenHour:      st.OpenHour,
			CloseHour:     st.CloseHour,
			Stations:      joinStations(st.Stations),
			WeekendUplift: st.WeekendUplift,
		}
		if err := s.db.Save(&rec).Error; err != nil {
			return &DataLoadError{Source: "sqlite", Err: err}
		}
	}
	for storeID, emps := range employees {
		for _, emp := range emps {
			rec := employeeRecord{
				ID:             emp.ID,
				StoreID:        storeID,
				Name:           emp.Name,
				Type:           string(emp.Type),
				Stations:       joinStations(emp.Stations),
				Seniority:      emp.Seniority,
				MinWeeklyHours: emp.MinWeeklyHours,
				MaxWeeklyHours: emp.MaxWeeklyHours,
				AvailableDays:  joinWeekdays(emp.AvailableDays),
			}
			if err := s.db.Save(&rec).Error; err != nil {
				return &DataLoadError{Source: "sqlite", Err: err}
			}
		}
	}
	return nil
}

func joinStations(stations []roster.Station) string {
	parts := make([]string, 0, len(stations))
	for _, st := range stations {
		parts = append(parts, string(st))
	}
	return strings.Join(parts, ",")
}

func splitStations(s string) []roster.Station {
	if s == "" {
		return nil
	}
	var stations []roster.Station
	for _, part := range strings.Split(s, ",") {
		stations = append(stations, roster.Station(strings.TrimSpace(part)))
	}
	return stations
}

func joinWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, fmt.Sprintf("%d", int(d)))
	}
	return strings.Join(parts, ",")
}

func splitWeekdays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &n); err == nil {
			days = append(days, time.Weekday(n))
		}
	}
	return days
}
