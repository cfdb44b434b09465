package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Session counts what happened during one run of the console. Nothing is
// served over the network; Flush writes a textfile-collector file instead.
type Session struct {
	registry *prometheus.Registry

	StudentsAdded  prometheus.Counter
	Passes         prometheus.Counter
	AuthFailures   prometheus.Counter
	TeachersAdded  prometheus.Counter
	RosterSaves    *prometheus.CounterVec
	RosterStudents prometheus.Gauge
	RosterPresent  prometheus.Gauge
}

func NewSession() *Session {
	s := &Session{
		registry: prometheus.NewRegistry(),
		StudentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_students_added_total",
			Help: "Students added to the roster.",
		}),
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_passes_total",
			Help: "Completed attendance passes.",
		}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_auth_failures_total",
			Help: "Rejected teacher logins.",
		}),
		TeachersAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_teachers_added_total",
			Help: "Teacher credentials added.",
		}),
		RosterSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_roster_saves_total",
			Help: "Roster file writes by result.",
		}, []string{"result"}),
		RosterStudents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attendance_roster_students",
			Help: "Students currently on the roster.",
		}),
		RosterPresent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attendance_roster_present",
			Help: "Students marked present.",
		}),
	}
	s.registry.MustRegister(
		s.StudentsAdded,
		s.Passes,
		s.AuthFailures,
		s.TeachersAdded,
		s.RosterSaves,
		s.RosterStudents,
		s.RosterPresent,
	)
	return s
}

func (s *Session) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Session) ObserveSave(err error) {
	if err != nil {
		s.RosterSaves.WithLabelValues("error").Inc()
		return
	}
	s.RosterSaves.WithLabelValues("ok").Inc()
}

func (s *Session) ObserveRoster(students, present int) {
	s.RosterStudents.Set(float64(students))
	s.RosterPresent.Set(float64(present))
}

// Flush writes the current values to path. An empty path disables it.
func (s *Session) Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
