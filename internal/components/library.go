package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/l10nlab/promptpilot/internal/domain"
)

func Library(summaries []domain.BasePromptSummary) templ.Component {
	return page("Prompt Library", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="library"><h1>Prompt Library</h1><ul class="prompts">`); err != nil {
			return err
		}
		for _, summary := range summaries {
			_, err := fmt.Fprintf(w,
				`<li class="prompt" data-base="%s"><a href="/library/%s/versions"><strong>%s</strong></a>`+
					`<span class="meta">%s · %s · %s · %d versions</span><p>%s</p></li>`,
				templ.EscapeString(summary.BasePromptId), templ.EscapeString(summary.BasePromptId),
				templ.EscapeString(summary.Name),
				templ.EscapeString(summary.Project), templ.EscapeString(summary.Language),
				templ.EscapeString(summary.LatestVersion), summary.VersionCount,
				templ.EscapeString(summary.Description))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	}))
}

func Versions(baseId string, versions []domain.Prompt) templ.Component {
	return page("Prompt Versions", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="versions" data-base="%s"><h1>Versions</h1><ul>`,
			templ.EscapeString(baseId))
		if err != nil {
			return err
		}
		for _, version := range versions {
			production := ""
			if version.IsProduction {
				production = `<span class="badge production">production</span>`
			}
			latest := ""
			if version.IsLatest {
				latest = `<span class="badge latest">latest</span>`
			}
			_, err = fmt.Fprintf(w,
				`<li class="version" data-id="%s"><strong>%s</strong>%s%s`+
					`<a class="open" href="/editor?version=%s">Open</a>`+
					`<form method="post" action="/prompts/%s/delete"><button class="delete">Delete</button></form></li>`,
				templ.EscapeString(version.Id), templ.EscapeString(version.Version), latest, production,
				templ.EscapeString(version.Id), templ.EscapeString(version.Id))
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</ul></section>`)
		return err
	}))
}
