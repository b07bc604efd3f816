package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/config"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/queue"
)

// MatchRunner executes one matching run for a property.
type MatchRunner interface {
	Run(propertyID int64) (*models.MatchResult, error)
}

// ResultWriter persists a completed match result.
type ResultWriter interface {
	SaveMatchResult(result *models.MatchResult) error
}

// Notifier reports a completed run to the operator channel.
type Notifier interface {
	NotifyMatchRun(result *models.MatchResult) error
}

// MatchProcessor drains the job queue with a pool of workers, runs the
// matching pass per job, persists the outcome, and notifies operators.
// Failed jobs are retried with a delay before being dropped.
type MatchProcessor struct {
	runner    MatchRunner
	results   ResultWriter
	notifier  Notifier
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.MatchQueue
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewMatchProcessor creates a new match processor instance
func NewMatchProcessor(runner MatchRunner, results ResultWriter, notifier Notifier, q *queue.MatchQueue, cfg *config.Config, logger *logrus.Logger) *MatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &MatchProcessor{
		runner:   runner,
		results:  results,
		notifier: notifier,
		queue:    q,
		config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing jobs from the queue
func (p *MatchProcessor) Start() {
	for i := 0; i < p.config.Matching.WorkerCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor
func (p *MatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// processLoop handles the continuous processing of jobs
func (p *MatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	p.queue.Subscribe(func(job *queue.MatchJob) error {
		return p.processJob(job)
	})
}

// processJob handles a single matching job with retry logic
func (p *MatchProcessor) processJob(job *queue.MatchJob) error {
	var err error
	for attempt := 0; attempt <= p.config.Matching.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying match job, attempt %d of %d", attempt, p.config.Matching.MaxRetries)
			time.Sleep(time.Duration(p.config.Matching.RetryDelay) * time.Second)
		}

		err = p.runOnce(job)
		if err == nil {
			return nil
		}

		p.logger.WithError(err).WithField("property_id", job.PropertyID).Error("Match job failed")
	}

	return fmt.Errorf("failed to process match job after %d attempts: %w", p.config.Matching.MaxRetries, err)
}

func (p *MatchProcessor) runOnce(job *queue.MatchJob) error {
	result, err := p.runner.Run(job.PropertyID)
	if err != nil {
		return err
	}

	if err := p.results.SaveMatchResult(result); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"property_id": job.PropertyID,
		"matched":     result.MatchedCount(),
		"candidates":  len(result.Traces),
		"wait":        time.Since(job.EnqueuedAt).String(),
	}).Info("Successfully processed match job")

	if p.notifier != nil {
		if err := p.notifier.NotifyMatchRun(result); err != nil {
			// Notification failure never fails the run itself.
			p.logger.WithError(err).Error("Failed to send match run notification")
		}
	}
	return nil
}
