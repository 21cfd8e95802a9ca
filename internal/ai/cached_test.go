package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/matching"
)

const resumeJSON = `{"education":"МГУ","experience_years":4,"hard_skills":["go"],"soft_skills":["teamwork"]}`

func TestCachedExtractorServesRepeatsFromStore(t *testing.T) {
	gen := &fakeGenerator{response: resumeJSON}
	store := newMapStore()
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), store, "gemini-2.5-pro", zap.NewNop())

	first, err := ex.Extract(context.Background(), "резюме", matching.KindResume)
	require.NoError(t, err)
	second, err := ex.Extract(context.Background(), " резюме\n", matching.KindResume)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.callCount())
	assert.Len(t, store.data, 1)

	// Same text as a job is a different entry.
	_, err = ex.Extract(context.Background(), "резюме", matching.KindJob)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.callCount())
}

func TestCachedExtractorReturnsCopies(t *testing.T) {
	gen := &fakeGenerator{response: resumeJSON}
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), newMapStore(), "m", zap.NewNop())

	first, err := ex.Extract(context.Background(), "text", matching.KindResume)
	require.NoError(t, err)
	first.HardSkills[0] = "changed"

	second, err := ex.Extract(context.Background(), "text", matching.KindResume)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, second.HardSkills)
}

func TestCachedExtractorDoesNotCacheFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("unavailable")}
	store := newMapStore()
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), store, "m", zap.NewNop())

	_, err := ex.Extract(context.Background(), "text", matching.KindJob)
	require.Error(t, err)
	assert.Empty(t, store.data)
}

func TestCachedExtractorCollapsesConcurrentCalls(t *testing.T) {
	gen := &fakeGenerator{response: resumeJSON, block: make(chan struct{})}
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), newMapStore(), "m", zap.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			_, err := ex.Extract(context.Background(), "same text", matching.KindResume)
			errs <- err
		}()
	}

	started.Wait()
	close(gen.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.LessOrEqual(t, gen.callCount(), callers)
	assert.GreaterOrEqual(t, gen.callCount(), 1)
}

func TestCachedExtractorSharedCallSurvivesCancelledCaller(t *testing.T) {
	gen := &fakeGenerator{response: resumeJSON, block: make(chan struct{})}
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), newMapStore(), "m", zap.NewNop())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := ex.Extract(firstCtx, "resume", matching.KindResume)
		firstErr <- err
	}()

	second := make(chan error, 1)
	var doc *matching.StructuredDocument
	go func() {
		var err error
		doc, err = ex.Extract(context.Background(), "resume", matching.KindResume)
		second <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	err := <-firstErr
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	close(gen.block)
	require.NoError(t, <-second)
	assert.Equal(t, []string{"go"}, doc.HardSkills)
	assert.Equal(t, 1, gen.callCount())
}

func TestCachedExtractorRetriesExpiredSharedCall(t *testing.T) {
	gen := &fakeGenerator{response: resumeJSON, block: make(chan struct{})}
	ex := NewCachedExtractor(NewExtractor(gen, zap.NewNop(), 0), newMapStore(), "m", zap.NewNop())

	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	first := make(chan error, 1)
	go func() {
		_, err := ex.Extract(shortCtx, "resume", matching.KindResume)
		first <- err
	}()

	second := make(chan error, 1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		_, err := ex.Extract(context.Background(), "resume", matching.KindResume)
		second <- err
	}()

	assert.True(t, errors.Is(<-first, context.DeadlineExceeded))

	close(gen.block)
	require.NoError(t, <-second)
}
