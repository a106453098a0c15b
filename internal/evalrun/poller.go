package evalrun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/l10nlab/promptpilot/internal/domain"
)

// startPollerLocked replaces any running poller with a fresh one for the
// current run. Callers must hold o.mu.
func (o *Orchestrator) startPollerLocked() {
	o.stopPollerLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	o.cancel = cancel
	o.pollerDone = done

	go o.poll(ctx, cancel, o.runId, done)
}

func (o *Orchestrator) stopPollerLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.pollerDone = nil
}

// poll checks the run immediately and then on every tick until the run and
// any judging reach a terminal state, an error occurs, or the poller is
// cancelled.
func (o *Orchestrator) poll(ctx context.Context, cancel context.CancelFunc, runId string, done chan struct{}) {
	defer close(done)
	defer cancel()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		if o.pollOnce(ctx, runId) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce runs one status check plus reconciliation and reports whether the
// poller should stop.
func (o *Orchestrator) pollOnce(ctx context.Context, runId string) bool {
	ev, err := o.api.CheckCompletion(ctx, runId)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.runId != runId {
			return true
		}
		o.status = domain.EvalFailed
		o.lastError = err.Error()
		o.pending = map[string]struct{}{}
		return true
	}

	// An empty 2xx body decodes to nil; treat it as "no status change" and
	// keep polling rather than dereferencing it.
	if ev == nil {
		return false
	}

	var results []domain.EvaluationResult
	if records, err := o.api.Results(ctx, runId); err != nil {
		if ctx.Err() != nil {
			return true
		}
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	} else if records != nil {
		results = *records
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// A newer submission owns the state now.
	if o.runId != runId {
		return true
	}

	o.status = ev.Status
	o.judgeStatus = ev.JudgeStatus
	o.reconcileLocked(results)

	if !ev.Status.Terminal() {
		return false
	}

	// Terminal runs get no partial spinners: whatever the backend did not
	// produce will never arrive.
	o.pending = map[string]struct{}{}

	return !judgeActive(o.judgeStatus)
}

// reconcileLocked maps backend results onto matrix cells. The correlation id
// the client sent with each row is authoritative; rows submitted before the
// backend echoed correlation ids fall back to source-text equality. Columns
// match on the prompt version they ran.
func (o *Orchestrator) reconcileLocked(results []domain.EvaluationResult) {
	for _, result := range results {
		rowId := ""
		if result.CorrelationId != "" {
			for _, row := range o.rows {
				if row.Id == result.CorrelationId {
					rowId = row.Id
					break
				}
			}
		}
		if rowId == "" {
			for _, row := range o.rows {
				if row.SourceText == result.SourceText {
					rowId = row.Id
					break
				}
			}
		}
		if rowId == "" {
			continue
		}

		for _, col := range o.columns {
			if col.SelectedVersionId != result.PromptId {
				continue
			}
			key := CellKey(rowId, col.Id)
			o.results[key] = result
			delete(o.pending, key)
		}
	}
}
