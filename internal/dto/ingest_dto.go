package dto

// PublishKnowledgeMessage is the payload queued for asynchronous indexing
// when knowledge text is uploaded.
type PublishKnowledgeMessage struct {
	SourceId string                 `json:"source_id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
