package domain

import (
	"errors"
	"strings"
	"time"
)

// BenchmarkRun is a persisted record of one benchmark execution, including
// the ordered scenarios it evaluated. Runs are read-only once persisted.
//
// The JSON field names are the persisted document layout; documents written
// by the benchmark runner are stored verbatim.
type BenchmarkRun struct {
	ID                       string     `json:"id"`
	DomainID                 string     `json:"domainId"`
	Scenarios                []Scenario `json:"scenarios"`
	UseNarrativeDescriptions bool       `json:"useNarrativeDescriptions"`
	NarrativeModel           string     `json:"narrativeModel,omitempty"`
	Created                  time.Time  `json:"created,omitzero"`
}

func (r BenchmarkRun) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("run id is required")
	}
	if strings.TrimSpace(r.DomainID) == "" {
		return errors.New("domain id is required")
	}
	if r.Scenarios == nil {
		return errors.New("scenarios are required")
	}
	return nil
}
