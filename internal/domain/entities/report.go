package entities

// CategoryResult counts the files one rewrite category touched.
type CategoryResult struct {
	Name    string
	Scanned int
	Changed int
	PerFile bool // reported as a count of files instead of a single boolean
}

// Updated reports whether any file of the category changed.
func (c CategoryResult) Updated() bool {
	return c.Changed > 0
}

// Report is the outcome of an optimize run.
type Report struct {
	DryRun          bool
	Categories      []CategoryResult
	ChangedPaths    []string
	WorktreeChanges int // paths differing from HEAD after the run, -1 when unknown
}

// Add appends a category result and records the changed paths.
func (r *Report) Add(result CategoryResult, changed []string) {
	r.Categories = append(r.Categories, result)
	r.ChangedPaths = append(r.ChangedPaths, changed...)
}

// Category returns the result recorded under name.
func (r *Report) Category(name string) (CategoryResult, bool) {
	for _, category := range r.Categories {
		if category.Name == name {
			return category, true
		}
	}
	return CategoryResult{}, false
}

// TotalChanged is the number of changed files across all categories.
func (r *Report) TotalChanged() int {
	return len(r.ChangedPaths)
}
