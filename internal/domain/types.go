package domain

// Severity levels reported by the analyzer.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ValidSeverity reports whether s is one of the three known severity levels.
func ValidSeverity(s string) bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityError
}

const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusDeleted  = "deleted"
	FileStatusRenamed  = "renamed"
)

// Finding is a single issue reported by the static analyzer.
// Immutable once parsed; File is always relative to the repository root
// with forward-slash separators.
type Finding struct {
	Severity string
	Message  string
	File     string
	Line     int
	Column   int
}

// LocatedFinding is a Finding that landed inside the pull-request diff,
// annotated with the new-revision line number the comment is addressed to.
type LocatedFinding struct {
	Finding

	// TargetLine is the line number in the file as it exists after the
	// change. For the line schema this equals Finding.Line.
	TargetLine int
}

// Diff represents the full change set of a pull request.
type Diff struct {
	Files []FileDiff
}

// FileDiff captures the change for a single file.
type FileDiff struct {
	Path     string
	OldPath  string
	Status   string
	Patch    string
	IsBinary bool
}

// Comment is a desired review comment synthesized from findings.
// It carries no store-assigned identity.
type Comment struct {
	Path string
	Line int
	Body string
}

// Equal reports structural equality: same file, same coordinate, same
// rendered body. Identity never participates; a single changed character
// in the body makes two comments unequal.
func (c Comment) Equal(other Comment) bool {
	return c.Path == other.Path && c.Line == other.Line && c.Body == other.Body
}

// RemoteComment is a review comment that already exists in the comment
// store, carrying the identity the store assigned to it.
type RemoteComment struct {
	ID int64
	Comment
}

// IssueComment is a conversation-level comment on the pull request.
type IssueComment struct {
	ID   int64
	Body string
}
