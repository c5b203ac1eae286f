// Package validate checks newsletter drafts before rendering. Every rule is
// evaluated independently so the report lists all violations, not just the
// first one found.
package validate

import (
	"fmt"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/observability/metrics"
)

// Rule names reported in findings.
const (
	RuleSectionEmpty    = "section_empty"
	RuleItemTitleEmpty  = "item_title_empty"
	RuleItemURLInvalid  = "item_url_invalid"
	RuleBigStoryDangles = "big_story_dangling"
	RuleCountsMismatch  = "counts_mismatch"
	RuleSectionOverCap  = "section_over_cap"
)

// Validator checks drafts against the section rules. It is stateless and
// performs no I/O: URL checks are syntactic only.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate evaluates every rule and returns the aggregated report. The
// report passes when no finding has error severity; warnings alone (empty
// optional sections) do not fail a draft.
func (v *Validator) Validate(d *entity.Draft) entity.ValidationReport {
	var findings []entity.ValidationFinding

	for _, section := range d.Sections {
		findings = append(findings, checkSection(section)...)

		if want, ok := d.Counts[section.Name]; !ok || want != len(section.Items) {
			findings = append(findings, entity.ValidationFinding{
				Section:  section.Name,
				Rule:     RuleCountsMismatch,
				Reason:   fmt.Sprintf("counts entry %d does not match %d item(s)", want, len(section.Items)),
				Severity: entity.SeverityError,
			})
		}
	}

	if d.BigStory != nil {
		if d.FindItem(d.BigStory.Section, d.BigStory.URL) == nil {
			findings = append(findings, entity.ValidationFinding{
				Section:  d.BigStory.Section,
				Rule:     RuleBigStoryDangles,
				Reason:   fmt.Sprintf("big story %q does not reference an item in the draft", d.BigStory.URL),
				Severity: entity.SeverityError,
			})
		}
	}

	report := entity.ValidationReport{Findings: findings}
	report.Pass = len(report.Failures()) == 0
	metrics.RecordValidation(report)
	return report
}

// checkSection applies the per-section rules: emptiness (warning when the
// section is optional, error otherwise), per-item title and URL checks, and
// the configured cap.
func checkSection(section entity.Section) []entity.ValidationFinding {
	var findings []entity.ValidationFinding

	if len(section.Items) == 0 {
		severity := entity.SeverityError
		if section.Optional {
			severity = entity.SeverityWarning
		}
		reason := "section has no items"
		if section.FetchError != nil {
			reason = fmt.Sprintf("section has no items (source failed: %s)", section.FetchError.Kind)
		}
		findings = append(findings, entity.ValidationFinding{
			Section:  section.Name,
			Rule:     RuleSectionEmpty,
			Reason:   reason,
			Severity: severity,
		})
	}

	if section.Limit > 0 && len(section.Items) > section.Limit {
		findings = append(findings, entity.ValidationFinding{
			Section:  section.Name,
			Rule:     RuleSectionOverCap,
			Reason:   fmt.Sprintf("%d item(s) exceed the cap of %d", len(section.Items), section.Limit),
			Severity: entity.SeverityError,
		})
	}

	for i, item := range section.Items {
		if item.Title == "" {
			findings = append(findings, entity.ValidationFinding{
				Section:  section.Name,
				Rule:     RuleItemTitleEmpty,
				Reason:   fmt.Sprintf("item %d has an empty title", i),
				Severity: entity.SeverityError,
			})
		}
		if err := entity.ValidateItemURL(item.URL); err != nil {
			findings = append(findings, entity.ValidationFinding{
				Section:  section.Name,
				Rule:     RuleItemURLInvalid,
				Reason:   fmt.Sprintf("item %d: %v", i, err),
				Severity: entity.SeverityError,
			})
		}
	}
	return findings
}
