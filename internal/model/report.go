package model

// Placement records one note moved into a category topic folder.
type Placement struct {
	Source      string
	Destination string
	Category    Category
	Topic       string
}

// RunReport summarizes one classifier run.
type RunReport struct {
	RunID       string
	Scanned     int
	Placed      []Placement
	Quarantined []string // source paths moved to the failed folder
	Ignored     int      // provider entries with an unknown or repeated path
	DryRun      bool
	Err         error // non-nil when the batch failed
}

// Notifier delivers a run report somewhere a human will see it.
type Notifier interface {
	Notify(report RunReport) error
}
