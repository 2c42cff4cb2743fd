package importer

import (
	"errors"
	"fmt"

	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/catalog"
)

// Outcome classifies a finished import.
type Outcome string

const (
	OutcomeNoBlocksFound  Outcome = "no_blocks_found"
	OutcomeNoUsableBlocks Outcome = "no_usable_blocks"
	OutcomeAllDuplicate   Outcome = "all_duplicate"
	OutcomeSuccess        Outcome = "success"
	OutcomePartialSuccess Outcome = "partial_success"
)

// Severity tells the UI how to present the report message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Counts are the numbers an import is classified by.
type Counts struct {
	BlocksFound int `json:"blocksFound"`
	Extracted   int `json:"candidatesExtracted"`
	Accepted    int `json:"accepted"`
	Skipped     int `json:"skipped"`
}

// FileError is a source that could not be read.
type FileError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Report is the user-facing summary of an import.
type Report struct {
	Outcome  Outcome  `json:"outcome"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Counts
	// Added holds the entries created by the import with their final ids.
	Added      []catalog.Entry `json:"added"`
	FileErrors []FileError     `json:"fileErrors,omitempty"`
}

// Classify maps counts to exactly one outcome.
func Classify(c Counts) Outcome {
	switch {
	case c.BlocksFound == 0:
		return OutcomeNoBlocksFound
	case c.Extracted == 0:
		return OutcomeNoUsableBlocks
	case c.Accepted == 0:
		return OutcomeAllDuplicate
	case c.Skipped == 0:
		return OutcomeSuccess
	default:
		return OutcomePartialSuccess
	}
}

// NewReport classifies c and writes its message. File read errors are listed
// separately and never change the outcome.
func NewReport(c Counts, fileErrs []apache.FileReadError) Report {
	r := Report{
		Outcome: Classify(c),
		Counts:  c,
		Added:   []catalog.Entry{},
	}

	switch r.Outcome {
	case OutcomeNoBlocksFound:
		r.Severity = SeverityWarning
		r.Message = "No VirtualHost blocks found."
	case OutcomeNoUsableBlocks:
		r.Severity = SeverityWarning
		r.Message = "Found VirtualHosts but could not extract valid ServerName and ProxyPass configurations."
	case OutcomeAllDuplicate:
		r.Severity = SeverityInfo
		r.Message = fmt.Sprintf("All %d detected service(s) already exist in the dashboard.", c.Skipped)
	case OutcomeSuccess:
		r.Severity = SeveritySuccess
		r.Message = fmt.Sprintf("Successfully added %d new service(s)!", c.Accepted)
	case OutcomePartialSuccess:
		r.Severity = SeveritySuccess
		r.Message = fmt.Sprintf("Successfully added %d new service(s)! %d service(s) already existed and were skipped.",
			c.Accepted, c.Skipped)
	}

	for _, fe := range fileErrs {
		cause := errors.Unwrap(fe.Err)
		if cause == nil {
			cause = fe.Err
		}
		r.FileErrors = append(r.FileErrors, FileError{
			Name:    fe.Name,
			Message: fmt.Sprintf("failed to read '%s': %v", fe.Name, cause),
		})
	}
	return r
}
