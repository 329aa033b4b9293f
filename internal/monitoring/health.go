package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// StatusTracker exposes the progress of the current optimization run over HTTP
type StatusTracker struct {
	mu          sync.RWMutex
	startTime   time.Time
	runID       string
	condition   string
	state       string
	generation  int
	generations int
	bestFitness float64
	errors      []string
}

// RunStatus is the JSON document served by StatusTracker
type RunStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	State       string    `json:"state"`
	Generation  int       `json:"generation"`
	Generations int       `json:"generations"`
	BestFitness float64   `json:"best_fitness"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		startTime: time.Now(),
		state:     "idle",
		errors:    make([]string, 0),
	}
}

// StartRun resets the tracker for a new run
func (s *StatusTracker) StartRun(runID, condition string, generations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = runID
	s.condition = condition
	s.generations = generations
	s.generation = 0
	s.bestFitness = 0
	s.state = "running"
	s.errors = s.errors[:0]
}

// UpdateGeneration records the latest completed generation
func (s *StatusTracker) UpdateGeneration(generation int, best float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = generation
	s.bestFitness = best
}

// Finish marks the run complete, recording err when it failed
func (s *StatusTracker) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = "failed"
		s.errors = append(s.errors, err.Error())
		return
	}
	s.state = "completed"
}

// Snapshot returns the current status document
func (s *StatusTracker) Snapshot() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "healthy"
	if len(s.errors) > 0 {
		status = "unhealthy"
	}

	errs := make([]string, len(s.errors))
	copy(errs, s.errors)

	return RunStatus{
		Status:      status,
		Timestamp:   time.Now(),
		RunID:       s.runID,
		Condition:   s.condition,
		State:       s.state,
		Generation:  s.generation,
		Generations: s.generations,
		BestFitness: s.bestFitness,
		Uptime:      time.Since(s.startTime).String(),
		Errors:      errs,
	}
}

func (s *StatusTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if snapshot.Status != "healthy" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(snapshot)
}
