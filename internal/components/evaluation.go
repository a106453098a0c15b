package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/l10nlab/promptpilot/internal/domain"
	"github.com/l10nlab/promptpilot/internal/evalrun"
)

type EvaluationCell struct {
	Pending bool
	Result  *domain.EvaluationResult
}

type EvaluationView struct {
	Status      domain.EvalStatus
	JudgeStatus string
	LastError   string
	Rows        []domain.TestRow
	Columns     []domain.EvaluationColumn
	Cells       map[string]EvaluationCell
	TestSets    []domain.TestSetSummary
}

// EvaluationFromSnapshot projects orchestrator state into the matrix the
// template renders.
func EvaluationFromSnapshot(snap evalrun.Snapshot) EvaluationView {
	view := EvaluationView{
		Status:      snap.Status,
		JudgeStatus: snap.JudgeStatus,
		LastError:   snap.LastError,
		Rows:        snap.Rows,
		Columns:     snap.Columns,
		Cells:       make(map[string]EvaluationCell, len(snap.Pending)+len(snap.Results)),
	}
	for key := range snap.Pending {
		view.Cells[key] = EvaluationCell{Pending: true}
	}
	for key, result := range snap.Results {
		result := result
		view.Cells[key] = EvaluationCell{Result: &result}
	}
	return view
}

func Evaluation(view EvaluationView) templ.Component {
	return page("Evaluation", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="evaluation" data-status="%s" data-judge-status="%s">%s`+
				`<header><h1>Evaluation</h1><button id="run" %s>Run</button>`+
				`<button id="run-judge" %s>Run LLM judge</button>`+
				`<button id="save-session">Save session</button></header>`,
			templ.EscapeString(string(view.Status)), templ.EscapeString(view.JudgeStatus),
			banner(view.LastError),
			disabledWhen(view.Status == domain.EvalPending || view.Status == domain.EvalRunning),
			disabledWhen(view.Status != domain.EvalCompleted))
		if err != nil {
			return err
		}

		if view.Status == domain.EvalPending || view.Status == domain.EvalRunning {
			if err = Loading("Evaluation running...").Render(ctx, w); err != nil {
				return err
			}
		}

		if err = testSetPicker(view.TestSets).Render(ctx, w); err != nil {
			return err
		}

		if _, err = io.WriteString(w, `<table class="matrix"><thead><tr><th>Source</th><th>Reference</th>`); err != nil {
			return err
		}
		for _, col := range view.Columns {
			if err = columnHeader(col).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err = io.WriteString(w, `<th><button id="add-column">+</button></th></tr></thead><tbody>`); err != nil {
			return err
		}

		for _, row := range view.Rows {
			if err = matrixRow(row, view).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w,
			`</tbody></table><button id="add-row">Add row</button></section>`)
		return err
	}))
}

func columnHeader(col domain.EvaluationColumn) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<th class="column" data-id="%s" data-base="%s"><select class="version">`,
			templ.EscapeString(col.Id), templ.EscapeString(col.BasePromptId))
		if err != nil {
			return err
		}
		for _, version := range col.AvailableVersions {
			selected := ""
			if version.Id == col.SelectedVersionId {
				selected = " selected"
			}
			_, err = fmt.Fprintf(w, `<option value="%s"%s>%s %s</option>`,
				templ.EscapeString(version.Id), selected,
				templ.EscapeString(version.Name), templ.EscapeString(version.Version))
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `</select><span class="model">%s</span></th>`, templ.EscapeString(col.ModelId))
		return err
	})
}

func matrixRow(row domain.TestRow, view EvaluationView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<tr data-row="%s"><td class="source" contenteditable>%s</td><td class="reference" contenteditable>%s</td>`,
			templ.EscapeString(row.Id), templ.EscapeString(row.SourceText), templ.EscapeString(row.ReferenceText))
		if err != nil {
			return err
		}
		for _, col := range view.Columns {
			cell := view.Cells[evalrun.CellKey(row.Id, col.Id)]
			if err = matrixCell(cell).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `<td></td></tr>`)
		return err
	})
}

func matrixCell(cell EvaluationCell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if cell.Pending {
			_, err := io.WriteString(w, `<td class="cell pending"><div class="spinner"></div></td>`)
			return err
		}
		if cell.Result == nil {
			_, err := io.WriteString(w, `<td class="cell empty"></td>`)
			return err
		}

		result := cell.Result
		_, err := fmt.Fprintf(w,
			`<td class="cell" data-result="%s"><p class="output">%s</p><select class="score">%s</select>`+
				`<textarea class="comment" placeholder="Comment">%s</textarea>`,
			templ.EscapeString(result.Id), templ.EscapeString(result.ModelOutput),
			scoreOptions(result.Score), templ.EscapeString(result.Comment))
		if err != nil {
			return err
		}
		if result.JudgeScore != nil {
			_, err = fmt.Fprintf(w, `<div class="judge" title="%s">Judge (%s): %.1f</div>`,
				templ.EscapeString(result.JudgeRationale), templ.EscapeString(result.JudgeModelId),
				*result.JudgeScore)
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</td>`)
		return err
	})
}

func testSetPicker(testSets []domain.TestSetSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<aside class="test-sets"><h2>Test sets</h2>`+
				`<form id="upload" method="post" action="/test-sets/upload" enctype="multipart/form-data">`+
				`<input type="file" name="file" required><input name="test_set_name" placeholder="Name" required>`+
				`<input name="language_code" placeholder="Language" required>`+
				`<input name="source_column" placeholder="Source column" required>`+
				`<input name="reference_column" placeholder="Reference column">`+
				`<button type="submit">Upload</button></form><ul>`)
		if err != nil {
			return err
		}
		for _, set := range testSets {
			_, err = fmt.Fprintf(w, `<li><a href="/test-sets/%s/entries">%s</a> (%d rows, %s)</li>`,
				templ.EscapeString(set.Id), templ.EscapeString(set.TestSetName),
				set.RowCount, templ.EscapeString(set.LanguageCode))
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</ul></aside>`)
		return err
	})
}

func scoreOptions(score *int) string {
	options := `<option value="">-</option>`
	for value := 1; value <= 5; value++ {
		selected := ""
		if score != nil && *score == value {
			selected = " selected"
		}
		options += fmt.Sprintf(`<option value="%d"%s>%d</option>`, value, selected, value)
	}
	return options
}

func disabledWhen(disabled bool) string {
	if disabled {
		return "disabled"
	}
	return ""
}
