package dto

type UploadKnowledgeRequest struct {
	Text     string                 `json:"text" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UploadKnowledgeResponse struct {
	SourceId string `json:"source_id"`
	Status   string `json:"status"`
}

type DeleteKnowledgeResponse struct {
	SourceId string `json:"source_id"`
}

type KnowledgeStatsResponse struct {
	Chunks int64 `json:"chunks"`
}
