package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/l10nlab/promptpilot/internal/domain"
)

func Sessions(summaries []domain.EvaluationSessionSummary) templ.Component {
	return page("Saved Sessions", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="sessions"><h1>Saved Sessions</h1><ul>`); err != nil {
			return err
		}
		for _, summary := range summaries {
			_, err := fmt.Fprintf(w,
				`<li class="session" data-id="%s"><a href="/sessions/%s"><strong>%s</strong></a>`+
					`<span class="meta">%s · %d results</span>`+
					`<form method="post" action="/sessions/%s/delete"><button class="delete">Delete</button></form></li>`,
				templ.EscapeString(summary.Id), templ.EscapeString(summary.Id),
				templ.EscapeString(summary.Name),
				summary.SavedAt.Format("2006-01-02 15:04"), summary.ResultCount,
				templ.EscapeString(summary.Id))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	}))
}

func SessionDetail(session domain.EvaluationSession) templ.Component {
	return page(session.Name, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section class="session-detail" data-id="%s"><h1>%s</h1><p>%s</p>`+
				`<p class="meta">%s · %s · saved %s</p>`,
			templ.EscapeString(session.Id), templ.EscapeString(session.Name),
			templ.EscapeString(session.Description),
			templ.EscapeString(session.Config.Project), templ.EscapeString(session.Config.Language),
			session.SavedAt.Format("2006-01-02 15:04"))
		if err != nil {
			return err
		}

		if _, err = io.WriteString(w, `<table class="results"><thead><tr><th>Prompt</th><th>Source</th><th>Reference</th><th>Output</th><th>Score</th><th>Judge</th><th>Comment</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, result := range session.Results {
			score := "-"
			if result.Score != nil {
				score = fmt.Sprintf("%d", *result.Score)
			}
			judge := "-"
			if result.JudgeScore != nil {
				judge = fmt.Sprintf("%.1f", *result.JudgeScore)
			}
			_, err = fmt.Fprintf(w,
				`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td title="%s">%s</td><td>%s</td></tr>`,
				templ.EscapeString(result.PromptId), templ.EscapeString(result.SourceText),
				templ.EscapeString(result.ReferenceText), templ.EscapeString(result.ModelOutput),
				score, templ.EscapeString(result.JudgeRationale), judge,
				templ.EscapeString(result.Comment))
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</tbody></table></section>`)
		return err
	}))
}
