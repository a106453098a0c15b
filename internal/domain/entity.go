package domain

import "time"

// Section type ids understood by the editor and the assembler. Anything else
// is treated like SectionCustom and tagged from the section name.
const (
	SectionRole         = "role"
	SectionContext      = "context"
	SectionInstructions = "instructions"
	SectionExamples     = "examples"
	SectionOutput       = "output"
	SectionConstraints  = "constraints"
	SectionCustom       = "custom"
)

type PromptSection struct {
	Id      string `json:"id"`
	TypeId  string `json:"typeId"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// Prompt is one immutable version of a base prompt. Edits never mutate a
// version in place; the backend assigns a new version id on every save.
type Prompt struct {
	Id           string          `json:"id"`
	BasePromptId string          `json:"base_prompt_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Version      string          `json:"version"`
	IsLatest     bool            `json:"is_latest"`
	IsProduction bool            `json:"isProduction"`
	Sections     []PromptSection `json:"sections"`
	Tags         []string        `json:"tags"`
	Project      string          `json:"project"`
	Language     string          `json:"language"`
}

// BasePromptSummary is one row per base prompt with latest-version metadata.
type BasePromptSummary struct {
	BasePromptId    string `json:"base_prompt_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LatestVersion   string `json:"latest_version"`
	LatestVersionId string `json:"latest_version_id"`
	VersionCount    int    `json:"version_count"`
	Project         string `json:"project"`
	Language        string `json:"language"`
}

// PromptStructure holds the fixed templates served by the backend. The
// output requirement is appended to every assembled system prompt; the task
// info template is the skeleton of the user prompt.
type PromptStructure struct {
	OutputRequirement string `json:"output_requirement"`
	TaskInfo          string `json:"task_info"`
}

// TestRow is client-only, transient input. Id is a locally generated key.
type TestRow struct {
	Id            string
	SourceText    string
	ReferenceText string
	Instructions  string
}

// EvaluationColumn is client-only, transient. It binds one prompt version to
// a column of the result matrix for the duration of an evaluation session.
type EvaluationColumn struct {
	Id                string
	BasePromptId      string
	SelectedVersionId string
	ModelId           string
	AvailableVersions []Prompt
}

type EvalStatus string

const (
	EvalPending   EvalStatus = "pending"
	EvalRunning   EvalStatus = "running"
	EvalCompleted EvalStatus = "completed"
	EvalFailed    EvalStatus = "failed"
)

// Terminal reports whether no further status transitions can occur.
func (s EvalStatus) Terminal() bool {
	return s == EvalCompleted || s == EvalFailed
}

type Evaluation struct {
	Id          string     `json:"id"`
	Status      EvalStatus `json:"status"`
	JudgeStatus string     `json:"judge_status,omitempty"`
}

type EvaluationResult struct {
	Id             string   `json:"id"`
	EvaluationId   string   `json:"evaluation_id"`
	PromptId       string   `json:"prompt_id"`
	CorrelationId  string   `json:"correlation_id,omitempty"`
	SourceText     string   `json:"source_text"`
	ReferenceText  string   `json:"reference_text"`
	ModelOutput    string   `json:"model_output"`
	Score          *int     `json:"score"`
	Comment        string   `json:"comment"`
	JudgeScore     *float64 `json:"llm_judge_score,omitempty"`
	JudgeRationale string   `json:"llm_judge_rationale,omitempty"`
	JudgeModelId   string   `json:"llm_judge_model_id,omitempty"`
}

// SessionColumn is the simplified column projection stored with a saved
// session; the transient per-column UI state is not persisted.
type SessionColumn struct {
	BasePromptId      string `json:"basePromptId"`
	SelectedVersionId string `json:"selectedVersionId"`
	ModelId           string `json:"modelId"`
}

type SessionTestRow struct {
	SourceText    string `json:"sourceText"`
	ReferenceText string `json:"referenceText"`
}

type SessionConfig struct {
	Columns  []SessionColumn  `json:"columns"`
	TestSet  []SessionTestRow `json:"testSet"`
	Project  string           `json:"project"`
	Language string           `json:"language"`
}

type SessionResult struct {
	PromptId       string   `json:"promptId"`
	SourceText     string   `json:"sourceText"`
	ReferenceText  string   `json:"referenceText"`
	ModelOutput    string   `json:"modelOutput"`
	Score          *int     `json:"score"`
	Comment        string   `json:"comment"`
	JudgeScore     *float64 `json:"llm_judge_score,omitempty"`
	JudgeRationale string   `json:"llm_judge_rationale,omitempty"`
	JudgeModelId   string   `json:"llm_judge_model_id,omitempty"`
}

type EvaluationSession struct {
	Id          string          `json:"id"`
	RunId       string          `json:"evaluationRunId,omitempty"`
	Name        string          `json:"session_name"`
	Description string          `json:"session_description,omitempty"`
	SavedAt     time.Time       `json:"saved_at"`
	Config      SessionConfig   `json:"config"`
	Results     []SessionResult `json:"results"`
}

type EvaluationSessionSummary struct {
	Id          string    `json:"id"`
	Name        string    `json:"session_name"`
	SavedAt     time.Time `json:"saved_at"`
	ResultCount int       `json:"result_count"`
}

type TestSetSummary struct {
	Id           string    `json:"id"`
	TestSetName  string    `json:"test_set_name"`
	LanguageCode string    `json:"language_code"`
	RowCount     int       `json:"row_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type TestSetEntry struct {
	SourceText     string `json:"source_text"`
	ReferenceText  string `json:"reference_text"`
	ExtraInfoValue string `json:"extra_info_value,omitempty"`
}

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Disabled bool   `json:"disabled"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
