package rules

import (
	"context"

	"github.com/exaland/CalendarSlackBot/models"
)

// RuleRepository is the availability rule store: a simple table keyed by
// weekday. The engine reads it; only the rule-editing interaction writes it.
type RuleRepository interface {
	// List returns every well-formed rule row. Malformed rows are skipped,
	// not surfaced as errors.
	List(ctx context.Context) ([]models.AvailabilityRule, error)
	// Upsert replaces the row for the rule's weekday if one exists, else
	// appends a new row.
	Upsert(ctx context.Context, rule models.AvailabilityRule) error
}
