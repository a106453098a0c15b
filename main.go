package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/l10nlab/promptpilot/internal/app"
	"github.com/l10nlab/promptpilot/internal/components"
	"github.com/l10nlab/promptpilot/internal/config"
	"github.com/l10nlab/promptpilot/internal/evalrun"
	"github.com/l10nlab/promptpilot/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}

	componentBuilder := app.ComponentBuilder{
		Index:      components.Index,
		Login:      components.Login,
		Register:   components.Register,
		Editor:     components.Editor,
		Library:    components.Library,
		Versions:   components.Versions,
		Evaluation: components.Evaluation,
		Sessions:   components.Sessions,
		Session:    components.SessionDetail,
		Error:      components.Error,
	}

	creds := persistence.LoadCredentials(cfg.CredentialFile)
	client := persistence.NewClient(cfg.BaseUrl, creds)

	evaluationRepo := persistence.EvaluationRepo{Client: client}

	a := app.App{
		PromptRepo:       persistence.PromptRepo{Client: client},
		EvaluationRepo:   evaluationRepo,
		SessionRepo:      persistence.SessionRepo{Client: client},
		StructureRepo:    persistence.StructureRepo{Client: client},
		AuthRepo:         persistence.AuthRepo{Client: client},
		TestSetRepo:      persistence.TestSetRepo{Client: client},
		Creds:            creds,
		Runs:             evalrun.New(evaluationRepo, cfg.PollInterval),
		ComponentBuilder: componentBuilder,
		Config:           cfg,
	}

	a.Start()
}
