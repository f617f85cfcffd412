package storage

import (
	"slices"
	"sync"

	"github.com/iktkiosk/tcgreceipt/internal/receipt"
)

// DefaultLimit is how many jobs a JobStore keeps by default.
const DefaultLimit = 100

// JobStore keeps the most recent receipt jobs in memory
type JobStore struct {
	jobs  map[string]*receipt.Job
	order []string
	limit int
	mu    sync.RWMutex
}

func New(limit int) *JobStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &JobStore{
		jobs:  make(map[string]*receipt.Job),
		limit: limit,
	}
}

func (s *JobStore) Get(jobID string) (*receipt.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[jobID]
	return job, exists
}

// Add stores job, evicting the oldest job once the store is full.
func (s *JobStore) Add(job *receipt.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists {
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job

	for len(s.order) > s.limit {
		delete(s.jobs, s.order[0])
		s.order = s.order[1:]
	}
}

// Recent returns stored jobs, newest first.
func (s *JobStore) Recent() []*receipt.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*receipt.Job, 0, len(s.order))
	for _, id := range slices.Backward(s.order) {
		result = append(result, s.jobs[id])
	}
	return result
}

func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
