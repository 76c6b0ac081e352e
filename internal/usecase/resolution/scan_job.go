package resolution

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

const scanJobType = "duplicate_scan"

const (
	// DefaultScanRetention is how long a finished scan stays readable
	DefaultScanRetention = time.Hour
	// DefaultMaxScanJobs caps the scans held in memory
	DefaultMaxScanJobs = 100
)

// ScanStatus is the lifecycle of a background duplicate scan
type ScanStatus string

const (
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// ScanJob is a snapshot of a background duplicate scan
type ScanJob struct {
	ID          uuid.UUID       `json:"id"`
	Status      ScanStatus      `json:"status"`
	ActorID     string          `json:"actor_id,omitempty"`
	Candidates  int             `json:"candidates"`
	Pairs       []DuplicatePair `json:"pairs"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ScanJobRunner runs duplicate scans off the request path. Finished scans
// are kept in memory for Retention, and at most MaxJobs are held.
type ScanJobRunner struct {
	load    CorpusLoader
	workers int
	timeout time.Duration
	logger  *zap.Logger

	Retention time.Duration
	MaxJobs   int
	now       func() time.Time

	mu   sync.RWMutex
	jobs map[uuid.UUID]*ScanJob
	wg   sync.WaitGroup
}

// NewScanJobRunner creates a runner
func NewScanJobRunner(load CorpusLoader, workers int, timeout time.Duration, logger *zap.Logger) *ScanJobRunner {
	return &ScanJobRunner{
		load:    load,
		workers: workers,
		timeout: timeout,
		logger:  logger,

		Retention: DefaultScanRetention,
		MaxJobs:   DefaultMaxScanJobs,
		now:       time.Now,
		jobs:      make(map[uuid.UUID]*ScanJob),
	}
}

// Start launches a scan and returns immediately with the running job
func (r *ScanJobRunner) Start(actorID string) ScanJob {
	job := &ScanJob{
		ID:        uuid.New(),
		Status:    ScanRunning,
		ActorID:   actorID,
		Pairs:     []DuplicatePair{},
		StartedAt: r.now(),
	}
	r.mu.Lock()
	r.prune(job.StartedAt)
	r.jobs[job.ID] = job
	snapshot := *job
	r.mu.Unlock()

	// The job must outlive the HTTP request that started it
	jobCtx, cancel := jobcontext.JobBegin(context.Background(), job.ID, scanJobType, actorID, r.timeout)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		var (
			pairs      []DuplicatePair
			candidates int
		)
		err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
			corpus, err := r.load(ctx)
			if err != nil {
				return err
			}
			candidates = len(corpus)
			pairs, err = ScanDuplicates(ctx, corpus, r.workers)
			return err
		})
		r.finish(job.ID, candidates, pairs, err)
	}()

	if r.logger != nil {
		r.logger.Info("🔍 duplicate scan started",
			zap.String("job_id", job.ID.String()),
			zap.String("actor_id", actorID),
		)
	}
	return snapshot
}

func (r *ScanJobRunner) finish(id uuid.UUID, candidates int, pairs []DuplicatePair, err error) {
	now := r.now()

	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	job.Candidates = candidates
	job.CompletedAt = &now
	if err != nil {
		job.Status = ScanFailed
		job.Error = err.Error()
	} else {
		job.Status = ScanCompleted
		job.Pairs = pairs
	}
	r.mu.Unlock()

	if r.logger == nil {
		return
	}
	if err != nil {
		r.logger.Error("❌ duplicate scan failed",
			zap.String("job_id", id.String()),
			zap.Error(err),
		)
		return
	}
	r.logger.Info("✅ duplicate scan completed",
		zap.String("job_id", id.String()),
		zap.Int("candidates", candidates),
		zap.Int("pairs", len(pairs)),
		zap.Duration("took", now.Sub(job.StartedAt)),
	)
}

// Get returns a snapshot of a job, entities.ErrNotFound when unknown
func (r *ScanJobRunner) Get(id uuid.UUID) (ScanJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok || r.expired(job, r.now()) {
		return ScanJob{}, entities.ErrNotFound
	}
	return *job, nil
}

func (r *ScanJobRunner) expired(job *ScanJob, now time.Time) bool {
	return job.CompletedAt != nil && r.Retention > 0 && now.Sub(*job.CompletedAt) > r.Retention
}

// prune drops expired scans, then the oldest finished ones while the cap is
// reached. Running scans are never dropped. Caller holds r.mu.
func (r *ScanJobRunner) prune(now time.Time) {
	finished := make([]*ScanJob, 0, len(r.jobs))
	for id, job := range r.jobs {
		if r.expired(job, now) {
			delete(r.jobs, id)
			continue
		}
		if job.CompletedAt != nil {
			finished = append(finished, job)
		}
	}
	if r.MaxJobs <= 0 || len(r.jobs) < r.MaxJobs {
		return
	}

	slices.SortFunc(finished, func(a, b *ScanJob) int {
		return a.CompletedAt.Compare(*b.CompletedAt)
	})
	for _, job := range finished {
		if len(r.jobs) < r.MaxJobs {
			return
		}
		delete(r.jobs, job.ID)
	}
}

// Wait blocks until every started scan has finished
func (r *ScanJobRunner) Wait() {
	r.wg.Wait()
}
