package contracts

import "time"

// SkipReason identifies why a filing candidate was skipped without being
// stored. Each reason is recoverable: the run continues with the next
// candidate.
type SkipReason string

const (
	SkipIndexFetchFailed     SkipReason = "index_fetch_failed"
	SkipNoDocumentLink       SkipReason = "no_document_link"
	SkipWrongDocumentType    SkipReason = "wrong_document_type"
	SkipDocumentFetchFailed  SkipReason = "document_fetch_failed"
	SkipSchemaMismatch       SkipReason = "schema_mismatch"
	SkipNoUsableTransactions SkipReason = "no_usable_transactions"
)

// OutcomeStatus is the terminal state of one filing candidate
type OutcomeStatus string

const (
	OutcomeProcessed OutcomeStatus = "processed"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeErrored   OutcomeStatus = "errored"
)

// Outcome is the tagged per-candidate result threaded through
// resolver → extractor → pipeline.
type Outcome struct {
	URL    string        `json:"url"`
	Status OutcomeStatus `json:"status"`
	Reason SkipReason    `json:"reason,omitempty"`
	Err    error         `json:"-"`
}

// Skipped builds a skip outcome for a candidate URL
func Skipped(url string, reason SkipReason) Outcome {
	return Outcome{URL: url, Status: OutcomeSkipped, Reason: reason}
}

// Errored builds an error outcome for a candidate URL
func Errored(url string, err error) Outcome {
	return Outcome{URL: url, Status: OutcomeErrored, Err: err}
}

// Processed builds a success outcome for a candidate URL
func Processed(url string) Outcome {
	return Outcome{URL: url, Status: OutcomeProcessed}
}

// IngestSummary is returned by every ingestion run, including partial
// failures. Only a feed-level fatal error produces Success=false.
type IngestSummary struct {
	Success         bool      `json:"success"`
	Processed       int       `json:"processed"`
	Skipped         int       `json:"skipped"`
	Errors          int       `json:"errors"`
	TotalCandidates int       `json:"total_candidates"`
	Timestamp       time.Time `json:"timestamp"`
	Error           string    `json:"error,omitempty"`
}
