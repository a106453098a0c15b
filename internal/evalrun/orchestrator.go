package evalrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/l10nlab/promptpilot/internal/domain"
)

// EvalIdle is the local pre-submission state. The backend only ever reports
// the four run statuses; idle exists on the client alone.
const EvalIdle = domain.EvalStatus("idle")

const defaultPollInterval = 5 * time.Second

var (
	ErrNoPromptSelected = errors.New("no column has a prompt version selected")
	ErrEmptyTestSet     = errors.New("no test row has source text")
	ErrRunActive        = errors.New("an evaluation run is already in progress")
	ErrNoResults        = errors.New("run produced no results to save")
)

type api interface {
	Submit(ctx context.Context, req domain.EvaluationRequest) (*domain.Evaluation, error)
	CheckCompletion(ctx context.Context, evaluationId string) (*domain.Evaluation, error)
	Results(ctx context.Context, evaluationId string) (*[]domain.EvaluationResult, error)
	UpdateScore(ctx context.Context, resultId string, score int) error
	UpdateComment(ctx context.Context, resultId string, comment string) error
	RunJudge(ctx context.Context, evaluationId string) error
}

// Orchestrator owns one evaluation run at a time: submission, the polling
// loop, pending-cell bookkeeping and result reconciliation. It is safe for
// concurrent use by request handlers.
type Orchestrator struct {
	api      api
	interval time.Duration

	mu          sync.Mutex
	runId       string
	status      domain.EvalStatus
	judgeStatus string
	rows        []domain.TestRow
	columns     []domain.EvaluationColumn
	pending     map[string]struct{}
	results     map[string]domain.EvaluationResult
	lastError   string
	cancel      context.CancelFunc
	pollerDone  chan struct{}
}

func New(a api, interval time.Duration) *Orchestrator {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Orchestrator{
		api:      a,
		interval: interval,
		status:   EvalIdle,
		pending:  map[string]struct{}{},
		results:  map[string]domain.EvaluationResult{},
	}
}

// CellKey identifies one cell of the result matrix.
func CellKey(rowId string, columnId string) string {
	return rowId + "-" + columnId
}

// Submit validates the matrix inputs, marks every cell pending and sends the
// run to the backend. Validation failures never reach the network. Rows
// without source text are dropped before submission.
func (o *Orchestrator) Submit(ctx context.Context, rows []domain.TestRow, columns []domain.EvaluationColumn, testSetName string) error {
	o.mu.Lock()

	if !o.status.Terminal() && o.status != EvalIdle {
		o.mu.Unlock()
		return ErrRunActive
	}

	var cols []domain.EvaluationColumn
	for _, col := range columns {
		if col.SelectedVersionId != "" {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		o.mu.Unlock()
		return ErrNoPromptSelected
	}

	var filtered []domain.TestRow
	for _, row := range rows {
		if strings.TrimSpace(row.SourceText) == "" {
			continue
		}
		if row.Id == "" {
			row.Id = uuid.NewString()
		}
		filtered = append(filtered, row)
	}
	if len(filtered) == 0 {
		o.mu.Unlock()
		return ErrEmptyTestSet
	}

	req := domain.EvaluationRequest{
		PromptIds:   make([]string, 0, len(cols)),
		TestSetData: make([]domain.EvaluationRequestRow, 0, len(filtered)),
		TestSetName: testSetName,
	}
	for _, col := range cols {
		req.PromptIds = append(req.PromptIds, col.SelectedVersionId)
	}
	for _, row := range filtered {
		reqRow := domain.EvaluationRequestRow{
			SourceText:    row.SourceText,
			CorrelationId: row.Id,
		}
		if row.ReferenceText != "" {
			ref := row.ReferenceText
			reqRow.ReferenceText = &ref
		}
		if row.Instructions != "" {
			instructions := row.Instructions
			reqRow.Instructions = &instructions
		}
		req.TestSetData = append(req.TestSetData, reqRow)
	}

	o.stopPollerLocked()
	o.runId = ""
	o.status = domain.EvalPending
	o.judgeStatus = ""
	o.lastError = ""
	o.rows = filtered
	o.columns = columns
	o.results = map[string]domain.EvaluationResult{}
	o.pending = map[string]struct{}{}
	for _, row := range filtered {
		for _, col := range cols {
			o.pending[CellKey(row.Id, col.Id)] = struct{}{}
		}
	}
	o.mu.Unlock()

	ev, err := o.api.Submit(ctx, req)

	// The request helper maps empty 2xx bodies to (nil, nil); a run we cannot
	// identify is as bad as a rejected one.
	if err == nil && ev == nil {
		err = errors.New("evaluation submission returned no run")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		o.status = domain.EvalFailed
		o.lastError = err.Error()
		o.pending = map[string]struct{}{}
		return err
	}

	o.runId = ev.Id
	if ev.Status != "" {
		o.status = ev.Status
	}
	o.startPollerLocked()

	return nil
}

// SetScore applies a manual score to the cell immediately and persists it.
// When the write fails the previous value is restored.
func (o *Orchestrator) SetScore(ctx context.Context, resultId string, score int) error {
	key, prev, ok := o.applyResult(resultId, func(result *domain.EvaluationResult) {
		result.Score = &score
	})
	if !ok {
		return fmt.Errorf("unknown result %s", resultId)
	}

	if err := o.api.UpdateScore(ctx, resultId, score); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		o.revertResult(key, prev)
		return err
	}

	return nil
}

// SetComment mirrors SetScore for the free-text comment.
func (o *Orchestrator) SetComment(ctx context.Context, resultId string, comment string) error {
	key, prev, ok := o.applyResult(resultId, func(result *domain.EvaluationResult) {
		result.Comment = comment
	})
	if !ok {
		return fmt.Errorf("unknown result %s", resultId)
	}

	if err := o.api.UpdateComment(ctx, resultId, comment); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		o.revertResult(key, prev)
		return err
	}

	return nil
}

func (o *Orchestrator) applyResult(resultId string, mutate func(*domain.EvaluationResult)) (string, domain.EvaluationResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for key, result := range o.results {
		if result.Id == resultId {
			prev := result
			mutate(&result)
			o.results[key] = result
			return key, prev, true
		}
	}

	return "", domain.EvaluationResult{}, false
}

func (o *Orchestrator) revertResult(key string, prev domain.EvaluationResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if current, ok := o.results[key]; ok && current.Id == prev.Id {
		o.results[key] = prev
	}
}

// RunJudge asks the backend to score the finished run with an LLM judge and
// resumes polling so judge progress flows back in.
func (o *Orchestrator) RunJudge(ctx context.Context) error {
	o.mu.Lock()
	if o.runId == "" || o.status != domain.EvalCompleted {
		o.mu.Unlock()
		return errors.New("judging needs a completed run")
	}
	if judgeActive(o.judgeStatus) {
		o.mu.Unlock()
		return errors.New("judging is already in progress")
	}
	prev := o.judgeStatus
	o.judgeStatus = "pending"
	runId := o.runId
	o.mu.Unlock()

	if err := o.api.RunJudge(ctx, runId); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		o.mu.Lock()
		if o.runId == runId {
			o.judgeStatus = prev
		}
		o.mu.Unlock()
		return err
	}

	o.mu.Lock()
	if o.runId == runId {
		o.startPollerLocked()
	}
	o.mu.Unlock()

	return nil
}

// ReplaceColumns swaps in the current column setup. Pending cells that no
// longer correspond to a row-column pair are dropped so the matrix cannot
// show spinners for cells that stopped existing.
func (o *Orchestrator) ReplaceColumns(columns []domain.EvaluationColumn) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.columns = columns

	valid := map[string]struct{}{}
	for _, row := range o.rows {
		for _, col := range columns {
			valid[CellKey(row.Id, col.Id)] = struct{}{}
		}
	}
	for key := range o.pending {
		if _, ok := valid[key]; !ok {
			delete(o.pending, key)
		}
	}
}

// BuildSession packages the current run for persistence: the column and test
// set configuration plus every reconciled result.
func (o *Orchestrator) BuildSession(name string, description string, project string, language string) (domain.EvaluationSession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.results) == 0 {
		return domain.EvaluationSession{}, ErrNoResults
	}

	session := domain.EvaluationSession{
		RunId:       o.runId,
		Name:        name,
		Description: description,
		SavedAt:     time.Now().UTC(),
		Config: domain.SessionConfig{
			Project:  project,
			Language: language,
		},
	}
	for _, col := range o.columns {
		session.Config.Columns = append(session.Config.Columns, domain.SessionColumn{
			BasePromptId:      col.BasePromptId,
			SelectedVersionId: col.SelectedVersionId,
			ModelId:           col.ModelId,
		})
	}
	for _, row := range o.rows {
		session.Config.TestSet = append(session.Config.TestSet, domain.SessionTestRow{
			SourceText:    row.SourceText,
			ReferenceText: row.ReferenceText,
		})
	}

	// Row-major order keeps saved sessions stable across saves.
	for _, row := range o.rows {
		for _, col := range o.columns {
			result, ok := o.results[CellKey(row.Id, col.Id)]
			if !ok {
				continue
			}
			session.Results = append(session.Results, domain.SessionResult{
				PromptId:       result.PromptId,
				SourceText:     result.SourceText,
				ReferenceText:  result.ReferenceText,
				ModelOutput:    result.ModelOutput,
				Score:          result.Score,
				Comment:        result.Comment,
				JudgeScore:     result.JudgeScore,
				JudgeRationale: result.JudgeRationale,
				JudgeModelId:   result.JudgeModelId,
			})
		}
	}

	return session, nil
}

// Snapshot returns a copy of the run state for rendering.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		RunId:       o.runId,
		Status:      o.status,
		JudgeStatus: o.judgeStatus,
		LastError:   o.lastError,
		Rows:        append([]domain.TestRow(nil), o.rows...),
		Columns:     append([]domain.EvaluationColumn(nil), o.columns...),
		Pending:     make(map[string]struct{}, len(o.pending)),
		Results:     make(map[string]domain.EvaluationResult, len(o.results)),
	}
	for key := range o.pending {
		snap.Pending[key] = struct{}{}
	}
	for key, result := range o.results {
		snap.Results[key] = result
	}

	return snap
}

type Snapshot struct {
	RunId       string
	Status      domain.EvalStatus
	JudgeStatus string
	LastError   string
	Rows        []domain.TestRow
	Columns     []domain.EvaluationColumn
	Pending     map[string]struct{}
	Results     map[string]domain.EvaluationResult
}

// Stop cancels any active poller. Run state is kept so a final render still
// shows the matrix.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	done := o.pollerDone
	o.stopPollerLocked()
	o.mu.Unlock()

	if done != nil {
		<-done
	}
}

func judgeActive(status string) bool {
	return status == "pending" || status == "running"
}
