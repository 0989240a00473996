package dreamlethe

// Config holds all configuration for the assignment engine.
type Config struct {
	// DatasetPath points at a relationship table on disk (.json, .yaml or
	// .xlsx). When empty the built-in table is used.
	DatasetPath string `json:"dataset_path" yaml:"dataset_path"`

	// Capacities are the group sizes. When empty, the dataset's own
	// capacities apply.
	Capacities []int `json:"capacities" yaml:"capacities"`

	// Trials caps restart trials per run. Zero scales the budget with the
	// candidate pool size.
	Trials int `json:"trials" yaml:"trials"`

	// MaxStale stops a run after this many consecutive non-improving
	// trials. Zero derives the window from the trial budget.
	MaxStale int `json:"max_stale" yaml:"max_stale"`

	// RefinePasses caps local-search passes per trial.
	RefinePasses int `json:"refine_passes" yaml:"refine_passes"`

	// Overflow tuning: SmallExcess is the largest excess handled by the
	// removal search, TopK the removal shortlist size, OverflowTrials the
	// budget spent re-scoring each shortlisted subset.
	SmallExcess    int `json:"small_excess" yaml:"small_excess"`
	TopK           int `json:"top_k" yaml:"top_k"`
	OverflowTrials int `json:"overflow_trials" yaml:"overflow_trials"`

	// StrategyWeights overrides the construction strategy mix, keyed by
	// strategy name (fill_first, balanced, cluster_seed, greedy_gain).
	StrategyWeights map[string]int `json:"strategy_weights" yaml:"strategy_weights"`

	// Seed fixes the random seed for every run. Zero draws a fresh seed
	// per run.
	Seed int64 `json:"seed" yaml:"seed"`

	// SuggestLimit caps prefix-suggestion results.
	SuggestLimit int `json:"suggest_limit" yaml:"suggest_limit"`
}

// DefaultConfig returns a Config with the solver defaults spelled out.
// The built-in dataset supplies the capacities.
func DefaultConfig() Config {
	return Config{
		RefinePasses:   50,
		SmallExcess:    4,
		TopK:           20,
		OverflowTrials: 100,
		SuggestLimit:   10,
	}
}
