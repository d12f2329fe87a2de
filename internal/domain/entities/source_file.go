package entities

// SourceFile is a file of the patched tree, read whole.
type SourceFile struct {
	Path    string
	Content string
}

// EditResult is the outcome of running one transform on a SourceFile. It is
// never partial: either Content is the fully transformed text, or Changed is
// false and Content is the original text.
type EditResult struct {
	Changed bool
	Content string
}

// Transform is a pure text-to-text edit.
type Transform func(content string) (string, bool)

// Apply runs transform on the file content.
func (f SourceFile) Apply(transform Transform) EditResult {
	updated, changed := transform(f.Content)
	if !changed || updated == f.Content {
		return EditResult{Changed: false, Content: f.Content}
	}
	return EditResult{Changed: true, Content: updated}
}
