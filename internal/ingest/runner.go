package ingest

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/datachat-ai/datachat/internal/history"
)

// ErrAlreadyRunning is returned when a training request arrives while a
// previous run is still in flight. Callers report it instead of queueing.
var ErrAlreadyRunning = errors.New("training already in progress")

// RunState is a point-in-time snapshot of the runner, broadcast to
// subscribers and served by the status endpoint.
type RunState struct {
	Running bool     `json:"running"`
	Kind    string   `json:"kind,omitempty"`
	Results []Result `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Runner serializes ingestion runs. At most one run is active at a time;
// concurrent requests fail fast with ErrAlreadyRunning.
type Runner struct {
	documents *DocumentPipeline
	datasets  *DatasetPipeline
	runs      *history.Store

	mu        sync.Mutex
	running   bool
	last      RunState
	listeners map[chan RunState]struct{}
}

func NewRunner(documents *DocumentPipeline, datasets *DatasetPipeline, runs *history.Store) *Runner {
	return &Runner{
		documents: documents,
		datasets:  datasets,
		runs:      runs,
		listeners: make(map[chan RunState]struct{}),
	}
}

// State returns the most recent snapshot.
func (r *Runner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Subscribe registers a status listener. The returned cancel func must be
// called exactly once; the channel is closed by it.
func (r *Runner) Subscribe() (<-chan RunState, func()) {
	ch := make(chan RunState, 8)
	r.mu.Lock()
	r.listeners[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.listeners[ch]; ok {
			delete(r.listeners, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// broadcast delivers the state to every listener, dropping the update for
// any listener whose buffer is full. Slow consumers never block a run.
func (r *Runner) broadcast(state RunState) {
	r.mu.Lock()
	r.last = state
	for ch := range r.listeners {
		select {
		case ch <- state:
		default:
		}
	}
	r.mu.Unlock()
}

func (r *Runner) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrAlreadyRunning
	}
	r.running = true
	return nil
}

// finish clears the running flag and broadcasts the final state in one
// step, so a listener that sees the run end can immediately start another.
func (r *Runner) finish(state RunState) {
	r.mu.Lock()
	r.running = false
	r.last = state
	for ch := range r.listeners {
		select {
		case ch <- state:
		default:
		}
	}
	r.mu.Unlock()
}

// TrainDocuments starts a background ingestion of every PDF under dir.
// Returns ErrAlreadyRunning without starting anything if a run is active.
func (r *Runner) TrainDocuments(ctx context.Context, dir string) error {
	if err := r.begin(); err != nil {
		return err
	}

	go func() {
		r.broadcast(RunState{Running: true, Kind: string(history.KindDocuments)})

		runID := r.beginRun(ctx, history.KindDocuments)
		results, err := r.documents.ProcessAll(ctx, dir)
		if err != nil {
			log.Printf("document training failed: %v", err)
			r.finishRun(runID, history.RunFailed, results, err.Error())
			r.finish(RunState{Kind: string(history.KindDocuments), Results: results, Error: err.Error()})
			return
		}
		r.finishRun(runID, history.RunCompleted, results, "")
		r.finish(RunState{Kind: string(history.KindDocuments), Results: results})
	}()
	return nil
}

// TrainDataset starts a background rebuild of the dataset index from the
// CSV found under dir.
func (r *Runner) TrainDataset(ctx context.Context, dir string) error {
	if err := r.begin(); err != nil {
		return err
	}

	go func() {
		r.broadcast(RunState{Running: true, Kind: string(history.KindDataset)})

		runID := r.beginRun(ctx, history.KindDataset)
		result := r.datasets.ProcessDir(ctx, dir)
		results := []Result{result}
		if result.Status == StatusError {
			log.Printf("dataset training failed: %s", result.Message)
			r.finishRun(runID, history.RunFailed, results, result.Message)
			r.finish(RunState{Kind: string(history.KindDataset), Results: results, Error: result.Message})
			return
		}
		r.finishRun(runID, history.RunCompleted, results, "")
		r.finish(RunState{Kind: string(history.KindDataset), Results: results})
	}()
	return nil
}

func (r *Runner) beginRun(ctx context.Context, kind history.Kind) string {
	if r.runs == nil {
		return ""
	}
	id, err := r.runs.Begin(ctx, kind)
	if err != nil {
		log.Printf("recording run start: %v", err)
		return ""
	}
	return id
}

func (r *Runner) finishRun(id string, status history.RunStatus, results []Result, message string) {
	if r.runs == nil || id == "" {
		return
	}
	var processed, skipped, failed int
	for _, res := range results {
		switch res.Status {
		case StatusProcessed:
			processed++
		case StatusSkipped:
			skipped++
		case StatusError:
			failed++
		}
	}
	if err := r.runs.Finish(context.Background(), id, status, processed, skipped, failed, message); err != nil {
		log.Printf("recording run end: %v", err)
	}
}
