package compose

// ProgressStage identifies a combine pipeline step for progress
// reporting.
type ProgressStage string

const (
	StageValidate ProgressStage = "validate"
	StageTree     ProgressStage = "tree"
	StageFetch    ProgressStage = "fetch"
	StageMerge    ProgressStage = "merge"
	StageEncode   ProgressStage = "encode"
)

// ProgressFunc receives pipeline progress. Done and total count units
// of the current stage (files for fetch, components for merge); total
// is zero for stages without a unit count.
type ProgressFunc func(stage ProgressStage, done, total int)

// Options configures combine behavior.
type Options struct {
	// LenientMetadata substitutes the identity transform for
	// unparseable edge metadata and records a warning instead of
	// aborting.
	LenientMetadata bool

	// PrefetchWorkers bounds concurrent component fetches. Merges
	// stay strictly sequential regardless.
	PrefetchWorkers int

	// Progress, when set, is invoked as the pipeline advances.
	Progress ProgressFunc
}

// DefaultOptions returns default combine configuration: strict
// metadata handling and four fetch workers.
func DefaultOptions() Options {
	return Options{
		PrefetchWorkers: 4,
	}
}

func (o Options) workers() int {
	if o.PrefetchWorkers < 1 {
		return 1
	}
	return o.PrefetchWorkers
}

func (o Options) progress() ProgressFunc {
	if o.Progress != nil {
		return o.Progress
	}
	return func(ProgressStage, int, int) {}
}
