package domain

// EvaluationRequestRow is one test item submitted for evaluation. The
// correlation id is the client-side row key; backends that echo it on result
// rows make cell matching exact instead of source-text based.
type EvaluationRequestRow struct {
	SourceText    string  `json:"source_text"`
	ReferenceText *string `json:"reference_text"`
	Instructions  *string `json:"additional_instructions,omitempty"`
	CorrelationId string  `json:"correlation_id,omitempty"`
}

type EvaluationRequest struct {
	PromptIds   []string               `json:"prompt_ids"`
	TestSetData []EvaluationRequestRow `json:"test_set_data"`
	TestSetName string                 `json:"test_set_name"`
}

// ColumnMapping tells the backend which uploaded spreadsheet columns hold
// which test-set fields. Nil means the field is absent from the file.
type ColumnMapping struct {
	SourceTextColumn    *string `json:"sourceTextColumn"`
	ReferenceTextColumn *string `json:"referenceTextColumn"`
	TextIdColumn        *string `json:"textIdColumn"`
	ExtraInfoColumn     *string `json:"extraInfoColumn"`
}

type TestSetUploadResponse struct {
	Id          string `json:"id"`
	TestSetName string `json:"test_set_name"`
	Message     string `json:"message"`
	RowCount    int    `json:"row_count"`
}
