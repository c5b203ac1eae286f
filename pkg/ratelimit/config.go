package ratelimit

// Default per-minute budgets for the externally rate-limited sources. These
// mirror the documented budgets of the upstream APIs and are deliberately
// conservative.
const (
	ArxivBudget       = 30
	GitHubBudget      = 30
	ProductHuntBudget = 20
	TwitterBudget     = 15

	// DefaultBudget applies to sources without an explicit entry.
	DefaultBudget = 10
)

// Config holds per-source call budgets (calls per minute).
type Config struct {
	Budgets map[string]int

	// Fallback is used for sources absent from Budgets. Zero or negative
	// values fall back to DefaultBudget.
	Fallback int
}

// DefaultConfig returns the fixed budgets for the four rate-limited sources.
func DefaultConfig() Config {
	return Config{
		Budgets: map[string]int{
			"arxiv":       ArxivBudget,
			"github":      GitHubBudget,
			"producthunt": ProductHuntBudget,
			"twitter":     TwitterBudget,
		},
		Fallback: DefaultBudget,
	}
}

// Budget resolves the per-minute budget for a source.
func (c Config) Budget(source string) int {
	if b, ok := c.Budgets[source]; ok && b > 0 {
		return b
	}
	if c.Fallback > 0 {
		return c.Fallback
	}
	return DefaultBudget
}
