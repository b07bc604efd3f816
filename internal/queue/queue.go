package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// MatchJob is one queued matching run: one property against the full buyer
// population. Jobs are independent of each other.
type MatchJob struct {
	PropertyID  int64
	RequestedBy string
	EnqueuedAt  time.Time
}

// MatchQueue is an in-memory queue of matching jobs.
type MatchQueue struct {
	items    chan *MatchJob
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(*MatchJob) error
}

// NewMatchQueue creates a new match queue with the specified buffer size
func NewMatchQueue(bufferSize int, logger *logrus.Logger) *MatchQueue {
	return &MatchQueue{
		items:    make(chan *MatchJob, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*MatchJob) error, 0),
	}
}

// Push adds a job to the queue
func (q *MatchQueue) Push(job *MatchJob) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- job:
		q.logger.WithField("property_id", job.PropertyID).Debug("Pushed match job to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each job
func (q *MatchQueue) Subscribe(handler func(*MatchJob) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *MatchQueue) Start() {
	go q.process()
}

// process handles the queue processing loop
func (q *MatchQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case job := <-q.items:
			q.processJob(job)
		}
	}
}

// processJob sends the job to all subscribed handlers
func (q *MatchQueue) processJob(job *MatchJob) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(job); err != nil {
			q.logger.WithError(err).WithField("property_id", job.PropertyID).Error("Handler failed to process match job")
		}
	}
}

// Close stops the queue and prevents new items from being added
func (q *MatchQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of jobs in the queue
func (q *MatchQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *MatchQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
