// Package ingest drives the two ingestion pipelines: PDFs into the
// persistent chunk store and CSVs into the rebuilt flat index. The Runner
// serializes pipeline executions and broadcasts their status.
package ingest

// Status classifies the outcome of ingesting one file.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusProcessed Status = "processed"
	StatusError     Status = "error"
)

// Result reports the outcome of ingesting one file.
type Result struct {
	File    string `json:"file"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}
