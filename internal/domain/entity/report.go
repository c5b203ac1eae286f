package entity

// Severity grades a validation finding. Failures block publication;
// warnings are advisory and leave the report passing.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationFinding is one human-readable rule violation tied to a section
// (or "draft" for draft-level rules).
type ValidationFinding struct {
	Section  string   `json:"section"`
	Rule     string   `json:"rule"`
	Reason   string   `json:"reason"`
	Severity Severity `json:"severity"`
}

// ValidationReport aggregates every violation found in a draft. It is
// derived data: computed on demand and never persisted.
type ValidationReport struct {
	Pass     bool                `json:"pass"`
	Findings []ValidationFinding `json:"findings"`
}

// Failures returns only the error-severity findings.
func (r ValidationReport) Failures() []ValidationFinding {
	var out []ValidationFinding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning-severity findings.
func (r ValidationReport) Warnings() []ValidationFinding {
	var out []ValidationFinding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}
