package resolution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func TestScanDuplicates(t *testing.T) {
	corpus := []Candidate{
		{ID: id(1), Name: "Jake Ryan", Email: "jake@acme.com"},
		{ID: id(2), Name: "J. Ryan", Email: "JAKE@acme.com"},
		{ID: id(3), Name: "Ryan Jake"},
		{ID: id(4), Name: "Maria Lopez"},
		{ID: id(5), Name: "Jake Smith"}, // first-name only: 40, below floor
	}

	pairs, err := ScanDuplicates(context.Background(), corpus, 2)
	require.NoError(t, err)

	got := make(map[[2]uuid.UUID]int)
	for _, p := range pairs {
		assert.Negative(t, compareIDs(p.FirstID, p.SecondID))
		got[[2]uuid.UUID{p.FirstID, p.SecondID}] = p.Confidence
	}
	assert.Equal(t, 90, got[[2]uuid.UUID{id(1), id(2)}])
	assert.Equal(t, 80, got[[2]uuid.UUID{id(1), id(3)}])
	assert.NotContains(t, got, [2]uuid.UUID{id(1), id(5)})
	assert.NotContains(t, got, [2]uuid.UUID{id(1), id(4)})

	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Confidence, pairs[i].Confidence)
	}
}

func TestScanDuplicatesReportsPairOnce(t *testing.T) {
	// same email and same name prefixes: the pair sits in several blocks
	corpus := []Candidate{
		{ID: id(1), Name: "Jake Ryan", Email: "jake@acme.com"},
		{ID: id(2), Name: "Jake Ryan", Email: "jake@acme.com"},
	}
	pairs, err := ScanDuplicates(context.Background(), corpus, 4)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 95, pairs[0].Confidence)
}

func TestScanDuplicatesLargeCorpus(t *testing.T) {
	corpus := make([]Candidate, 0, 400)
	for i := 0; i < 200; i++ {
		corpus = append(corpus,
			Candidate{ID: uuid.New(), Name: fmt.Sprintf("Person%03d Surname%03d", i, i)},
			Candidate{ID: uuid.New(), Name: fmt.Sprintf("Surname%03d Person%03d", i, i)},
		)
	}
	pairs, err := ScanDuplicates(context.Background(), corpus, 8)
	require.NoError(t, err)
	assert.Len(t, pairs, 200)
}

func TestScanDuplicatesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	corpus := []Candidate{{ID: id(1), Name: "Jake Ryan"}, {ID: id(2), Name: "Jake Ryan"}}
	_, err := ScanDuplicates(ctx, corpus, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanJobRunner(t *testing.T) {
	loader := func(context.Context) ([]Candidate, error) {
		return []Candidate{{ID: id(1), Name: "Jake Ryan"}, {ID: id(2), Name: "Ryan Jake"}}, nil
	}
	runner := NewScanJobRunner(loader, 2, time.Minute, nil)

	started := runner.Start("analyst")
	assert.Equal(t, ScanRunning, started.Status)
	runner.Wait()

	job, err := runner.Get(started.ID)
	require.NoError(t, err)
	assert.Equal(t, ScanCompleted, job.Status)
	assert.Equal(t, 2, job.Candidates)
	require.Len(t, job.Pairs, 1)
	assert.NotNil(t, job.CompletedAt)

	_, err = runner.Get(uuid.New())
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestScanJobRunnerFailure(t *testing.T) {
	runner := NewScanJobRunner(func(context.Context) ([]Candidate, error) {
		return nil, errors.New("db down")
	}, 1, time.Minute, nil)

	started := runner.Start("")
	runner.Wait()

	job, err := runner.Get(started.ID)
	require.NoError(t, err)
	assert.Equal(t, ScanFailed, job.Status)
	assert.Contains(t, job.Error, "db down")
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func emptyCorpus(context.Context) ([]Candidate, error) { return nil, nil }

func TestScanJobRunnerExpiresFinishedScans(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	runner := NewScanJobRunner(emptyCorpus, 1, time.Minute, nil)
	runner.now = clock.Now

	first := runner.Start("analyst")
	runner.Wait()
	_, err := runner.Get(first.ID)
	require.NoError(t, err)

	clock.Advance(DefaultScanRetention + time.Second)
	_, err = runner.Get(first.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	second := runner.Start("analyst")
	runner.Wait()
	assert.Len(t, runner.jobs, 1)
	_, err = runner.Get(second.ID)
	assert.NoError(t, err)
}

func TestScanJobRunnerCapsHeldScans(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	runner := NewScanJobRunner(emptyCorpus, 1, time.Minute, nil)
	runner.now = clock.Now
	runner.MaxJobs = 2

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		ids = append(ids, runner.Start("analyst").ID)
		runner.Wait()
		clock.Advance(time.Second)
	}

	assert.Len(t, runner.jobs, 2)
	_, err := runner.Get(ids[0])
	assert.ErrorIs(t, err, entities.ErrNotFound)
	for _, id := range ids[1:] {
		_, err := runner.Get(id)
		assert.NoError(t, err)
	}
}

func TestScanJobRunnerKeepsRunningScans(t *testing.T) {
	release := make(chan struct{})
	runner := NewScanJobRunner(func(ctx context.Context) ([]Candidate, error) {
		<-release
		return nil, nil
	}, 1, time.Minute, nil)
	runner.MaxJobs = 1

	first := runner.Start("analyst")
	second := runner.Start("analyst")
	close(release)
	runner.Wait()

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		job, err := runner.Get(id)
		require.NoError(t, err)
		assert.Equal(t, ScanCompleted, job.Status)
	}
}

func compareIDs(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}
