package schemas

import (
	"encoding/json"
	"errors"
	"time"
)

// FactCheckResult is one checked claim as returned by the fact-check API.
// Older API revisions report the verdict under "verification".
type FactCheckResult struct {
	Claim           string `json:"claim"`
	Verdict         string `json:"verdict,omitempty"`
	Verification    string `json:"verification,omitempty"`
	WolframQuery    string `json:"wolfram_query,omitempty"`
	WolframResponse string `json:"wolfram_response,omitempty"`
	FinalAnswer     string `json:"final_answer,omitempty"`
}

// UnmarshalJSON tolerates records produced by other tools: a field that is
// not a string (null, a number, an object) decodes as empty, and a record
// that is not an object decodes as an empty result. Grading treats the empty
// verdict as Inconclusive, so one odd record cannot reject a whole batch.
func (r *FactCheckResult) UnmarshalJSON(b []byte) error {
	*r = FactCheckResult{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return err
		}
		return nil
	}
	r.Claim = lenientString(fields["claim"])
	r.Verdict = lenientString(fields["verdict"])
	r.Verification = lenientString(fields["verification"])
	r.WolframQuery = lenientString(fields["wolfram_query"])
	r.WolframResponse = lenientString(fields["wolfram_response"])
	r.FinalAnswer = lenientString(fields["final_answer"])
	return nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

type FactCheckRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

type GradeRequest struct {
	Results      []FactCheckResult `json:"results" validate:"dive"`
	VerdictField string            `json:"verdict_field,omitempty" validate:"omitempty,oneof=auto verdict verification"`
	MatchPolicy  string            `json:"match_policy,omitempty" validate:"omitempty,oneof=false-priority true-first"`
}

type StatusOut struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CreateCheckOut struct {
	CheckID string `json:"check_id"`
	Status  string `json:"status"`
}

// CheckOut is the API view of an asynchronous check. Report and Chart are
// raw JSON so the http package stays independent of the grading types.
type CheckOut struct {
	CheckID   string            `json:"check_id"`
	Status    string            `json:"status"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Attempts  int               `json:"attempts"`
	ObjectRef string            `json:"object_ref,omitempty"`
	Error     string            `json:"error,omitempty"`
	Results   []FactCheckResult `json:"results,omitempty"`
	Report    json.RawMessage   `json:"report,omitempty"`
	Chart     json.RawMessage   `json:"chart,omitempty"`
}

// ArchiveDoc is the document written to object storage for every completed
// fact check.
type ArchiveDoc struct {
	CheckID   string            `json:"check_id,omitempty"`
	Text      string            `json:"text"`
	CheckedAt time.Time         `json:"checked_at"`
	Results   []FactCheckResult `json:"results"`
	Report    any               `json:"report,omitempty"`
}
