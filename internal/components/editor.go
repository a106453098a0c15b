package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/l10nlab/promptpilot/internal/assembly"
	"github.com/l10nlab/promptpilot/internal/domain"
)

// EditorSection pairs a prompt section with its derived XML tag so the
// template never re-derives it.
type EditorSection struct {
	Section domain.PromptSection
	Tag     string
}

type EditorView struct {
	Prompt *domain.Prompt

	// ProductionPrompt is the version currently serving the working
	// project/language pair; shown before the author replaces it.
	ProductionPrompt *domain.Prompt

	Project       string
	Language      string
	Sections      []EditorSection
	SystemPreview string
	UserPreview   []assembly.Segment
	FixedTags     []string
	DynamicTags   []string
	Variables     []string
	StructureMsg  string
}

func Editor(view EditorView) templ.Component {
	return page("Prompt Editor", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name, version := "Untitled prompt", ""
		if view.Prompt != nil {
			name = view.Prompt.Name
			version = view.Prompt.Version
		}

		checked := ""
		if view.Prompt != nil && view.Prompt.IsProduction {
			checked = " checked"
		}
		_, err := fmt.Fprintf(w,
			`<section class="editor" data-project="%s" data-language="%s">%s`+
				`<header><h1>%s</h1><span class="version">%s</span>`+
				`<label class="production-toggle"><input type="checkbox" id="is-production"%s> Set as production</label>`+
				`<button id="save-version">Save as new version</button></header>`,
			templ.EscapeString(view.Project), templ.EscapeString(view.Language),
			banner(view.StructureMsg),
			templ.EscapeString(name), templ.EscapeString(version), checked)
		if err != nil {
			return err
		}

		if err = productionNote(view).Render(ctx, w); err != nil {
			return err
		}

		if _, err = io.WriteString(w, `<div class="sections">`); err != nil {
			return err
		}
		for _, sec := range view.Sections {
			if err = editorSection(sec).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w,
			`<button id="add-section">Add section</button></div>`)
		if err != nil {
			return err
		}

		if err = tagPalette(view.FixedTags, view.DynamicTags).Render(ctx, w); err != nil {
			return err
		}

		_, err = fmt.Fprintf(w,
			`<div class="previews"><article class="preview system"><h2>System prompt</h2><pre>%s</pre></article>`+
				`<article class="preview user"><h2>User prompt</h2><pre>`,
			templ.EscapeString(view.SystemPreview))
		if err != nil {
			return err
		}
		if err = segments(view.UserPreview).Render(ctx, w); err != nil {
			return err
		}
		if _, err = io.WriteString(w, `</pre></article></div>`); err != nil {
			return err
		}

		if _, err = io.WriteString(w, `<datalist id="variables">`); err != nil {
			return err
		}
		for _, variable := range view.Variables {
			if _, err = fmt.Fprintf(w, `<option value="%s">`, templ.EscapeString(variable)); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</datalist></section>`)
		return err
	}))
}

// productionNote shows what the production toggle would replace, so the
// author confirms against the live version rather than blind.
func productionNote(view EditorView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		prod := view.ProductionPrompt
		if prod == nil {
			if view.Project == "" || view.Language == "" {
				return nil
			}
			_, err := fmt.Fprintf(w,
				`<p class="production-note">No production prompt is set for %s/%s yet.</p>`,
				templ.EscapeString(view.Project), templ.EscapeString(view.Language))
			return err
		}
		if view.Prompt != nil && view.Prompt.Id == prod.Id {
			_, err := io.WriteString(w,
				`<p class="production-note">This is the current production version.</p>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<p class="production-note">Current production: <strong>%s</strong> %s — saving with the toggle on replaces it.</p>`,
			templ.EscapeString(prod.Name), templ.EscapeString(prod.Version))
		return err
	})
}

func editorSection(sec EditorSection) templ.Component {
	return raw(
		`<article class="section" data-id="%s" data-type="%s" data-order="%d">`+
			`<header><input class="section-name" value="%s"><code class="tag">&lt;%s&gt;</code>`+
			`<button class="move-up">&#8593;</button><button class="move-down">&#8595;</button>`+
			`<button class="remove">&#10005;</button></header>`+
			`<textarea class="section-content">%s</textarea></article>`,
		templ.EscapeString(sec.Section.Id), templ.EscapeString(sec.Section.TypeId), sec.Section.Order,
		templ.EscapeString(sec.Section.Name), templ.EscapeString(sec.Tag),
		templ.EscapeString(sec.Section.Content))
}

// tagPalette lists every tag that can be inserted into section content: the
// fixed tags mined from the backend templates plus one tag per section.
func tagPalette(fixed []string, dynamic []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<aside class="palette"><h2>Tags</h2><ul class="fixed">`); err != nil {
			return err
		}
		for _, tag := range fixed {
			if _, err := fmt.Fprintf(w, `<li><button class="insert-tag" data-tag="%s">&lt;%s&gt;</button></li>`,
				templ.EscapeString(tag), templ.EscapeString(tag)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul><ul class="dynamic">`); err != nil {
			return err
		}
		for _, tag := range dynamic {
			if _, err := fmt.Fprintf(w, `<li><button class="insert-tag" data-tag="%s">&lt;%s&gt;</button></li>`,
				templ.EscapeString(tag), templ.EscapeString(tag)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></aside>`)
		return err
	})
}

// segments renders preview text with recognized template variables marked up
// so the stylesheet can highlight them.
func segments(segs []assembly.Segment) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, seg := range segs {
			var err error
			if seg.Variable {
				_, err = fmt.Fprintf(w, `<mark class="variable">%s</mark>`, templ.EscapeString(seg.Text))
			} else {
				_, err = io.WriteString(w, templ.EscapeString(seg.Text))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
