package dto

import "github.com/google/uuid"

// EmbedTrainingFileMessage travels over the in-process pipeline from the
// upload endpoint to the ingest worker.
type EmbedTrainingFileMessage struct {
	FileId uuid.UUID `json:"file_id"`
}
