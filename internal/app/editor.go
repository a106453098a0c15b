package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/l10nlab/promptpilot/internal/assembly"
	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/domain"
)

type promptSaveReq struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Project      string                 `json:"project"`
	Language     string                 `json:"language"`
	IsProduction bool                   `json:"isProduction"`
	Tags         []string               `json:"tags"`
	Sections     []domain.PromptSection `json:"sections"`
}

// editor renders the authoring surface. With a version query parameter it
// opens that exact version; otherwise it falls back to the production prompt
// for the working project and language, then to the starter scaffold.
func (a App) editor(w http.ResponseWriter, r *http.Request) *AppResp {
	project := r.URL.Query().Get("project")
	language := r.URL.Query().Get("language")
	versionId := r.URL.Query().Get("version")

	structure, structureMsg := a.structure(r)

	var production *domain.Prompt
	var err error
	if project != "" && language != "" {
		production, err = a.PromptRepo.Production(r.Context(), project, language)
		if err != nil {
			return a.errResp(err, get500())
		}
	}

	prompt := production
	if versionId != "" {
		prompt, err = a.findVersion(r, versionId)
		if err != nil {
			return a.errResp(err, get404())
		}
	}

	view := a.editorView(prompt, project, language, structure)
	view.StructureMsg = structureMsg
	view.ProductionPrompt = production

	return &AppResp{Component: a.ComponentBuilder.Editor(view), Code: 200, Message: "OK", ContentType: "text/html"}
}

func (a App) createPrompt(w http.ResponseWriter, r *http.Request) *AppResp {
	req, resp := a.readPromptReq(r)
	if resp != nil {
		return resp
	}

	prompt, err := a.PromptRepo.Create(r.Context(), domain.Prompt{
		Name:         req.Name,
		Description:  req.Description,
		Project:      req.Project,
		Language:     req.Language,
		IsProduction: req.IsProduction,
		Tags:         req.Tags,
		Sections:     assembly.NormalizeOrder(req.Sections)})

	if err != nil {
		return a.errResp(err, get500())
	}

	return a.renderSaved(r, prompt)
}

func (a App) saveVersion(w http.ResponseWriter, r *http.Request) *AppResp {
	req, resp := a.readPromptReq(r)
	if resp != nil {
		return resp
	}

	prompt, err := a.PromptRepo.SaveVersion(r.Context(), r.PathValue("versionId"), domain.Prompt{
		Name:         req.Name,
		Description:  req.Description,
		Project:      req.Project,
		Language:     req.Language,
		IsProduction: req.IsProduction,
		Tags:         req.Tags,
		Sections:     assembly.NormalizeOrder(req.Sections)})

	if err != nil {
		return a.errResp(err, get500())
	}

	return a.renderSaved(r, prompt)
}

func (a App) deleteVersion(w http.ResponseWriter, r *http.Request) *AppResp {
	if err := a.PromptRepo.Delete(r.Context(), r.PathValue("versionId")); err != nil {
		return a.errResp(err, get500())
	}

	http.Redirect(w, r, "/library", http.StatusSeeOther)
	return nil
}

func (a App) readPromptReq(r *http.Request) (*promptSaveReq, *AppResp) {
	content, err := Read(r.Body)
	if err != nil {
		return nil, a.errResp(err, get400())
	}

	req, err := ReadJSON[promptSaveReq](content)
	if err != nil {
		return nil, a.errResp(err, get400())
	}

	return req, nil
}

func (a App) renderSaved(r *http.Request, prompt *domain.Prompt) *AppResp {
	if prompt == nil {
		return a.errResp(nil, get500())
	}

	structure, structureMsg := a.structure(r)
	view := a.editorView(prompt, prompt.Project, prompt.Language, structure)
	view.StructureMsg = structureMsg

	if prompt.Project != "" && prompt.Language != "" {
		production, err := a.PromptRepo.Production(r.Context(), prompt.Project, prompt.Language)
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		} else {
			view.ProductionPrompt = production
		}
	}

	return &AppResp{Component: a.ComponentBuilder.Editor(view), Code: 201, Message: "Created", ContentType: "text/html"}
}

// structure fetches the backend templates, substituting the built-in
// fallback when the call fails so the editor stays usable.
func (a App) structure(r *http.Request) (domain.PromptStructure, string) {
	structure, err := a.StructureRepo.Get(r.Context())
	if err != nil || structure == nil {
		return assembly.FallbackStructure(), "Backend prompt structure unavailable; previews use built-in templates."
	}
	return *structure, ""
}

// findVersion resolves a version id to its full prompt. The backend has no
// single-version endpoint, so this goes through the listing.
func (a App) findVersion(r *http.Request, versionId string) (*domain.Prompt, error) {
	prompts, err := a.PromptRepo.List(r.Context())
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		return nil, nil
	}

	for _, prompt := range *prompts {
		if prompt.Id == versionId {
			return &prompt, nil
		}
	}
	return nil, nil
}

func (a App) editorView(prompt *domain.Prompt, project string, language string, structure domain.PromptStructure) components.EditorView {
	sections := assembly.StarterSections()
	if prompt != nil {
		sections = prompt.Sections
		if prompt.Project != "" {
			project = prompt.Project
		}
		if prompt.Language != "" {
			language = prompt.Language
		}
	}
	sections = assembly.NormalizeOrder(sections)

	editorSections := make([]components.EditorSection, 0, len(sections))
	for _, sec := range sections {
		editorSections = append(editorSections, components.EditorSection{
			Section: sec,
			Tag:     assembly.SectionTag(sec)})
	}

	return components.EditorView{
		Prompt:        prompt,
		Project:       project,
		Language:      language,
		Sections:      editorSections,
		SystemPreview: assembly.SystemPromptPreview(sections, structure),
		UserPreview:   assembly.SplitVariables(assembly.UserPromptPreview(structure, language)),
		FixedTags:     assembly.FixedTags(structure),
		DynamicTags:   assembly.DynamicTags(sections),
		Variables:     assembly.KnownVariables,
	}
}
