// Package types defines every cross-package data structure used by the snapctx CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"

	CommandSnapshot = "snapshot"
	CommandTree     = "tree"
)

// DefaultMaxFileSizeBytes is the per-file ceiling applied when the caller does not override it.
const DefaultMaxFileSizeBytes int64 = 10 * 1024 * 1024

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// FileEntry describes one collected file that is eligible for content merging.
type FileEntry struct {
	// RelativePath is the project-relative path with forward-slash separators.
	RelativePath string
	// AbsolutePath is the resolved filesystem path.
	AbsolutePath string
	// SizeBytes is the measured file size.
	SizeBytes int64
	// IsBinary reports whether the file was classified as binary content.
	IsBinary bool
	// LastModified is the file modification time formatted for display.
	LastModified string
}

// TreeNode represents a directory or file in the rendered tree.
// Children are ordered directories-first, then case-insensitively by name.
type TreeNode struct {
	Name       string
	Path       string
	Type       string
	SizeBytes  int64
	Unreadable bool
	Children   []*TreeNode
}

// FailureReason identifies why a file could not be merged.
type FailureReason string

const (
	FailureMissing    FailureReason = "file not found"
	FailureOversized  FailureReason = "exceeds size limit"
	FailureBinary     FailureReason = "binary content"
	FailureUnreadable FailureReason = "unreadable"
)

// FileReadError records a per-file merge failure. The batch continues past it.
type FileReadError struct {
	Path   string
	Reason FailureReason
	Err    error
}

// Error renders the failure with its underlying cause when one is present.
func (readError *FileReadError) Error() string {
	if readError.Err != nil {
		return readError.Path + ": " + string(readError.Reason) + ": " + readError.Err.Error()
	}
	return readError.Path + ": " + string(readError.Reason)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (readError *FileReadError) Unwrap() error {
	return readError.Err
}

// MergeResult pairs one requested path with its content or its failure.
// Results preserve the order of the requested file list.
type MergeResult struct {
	Path    string
	Entry   *FileEntry
	Content string
	Failure *FileReadError
}

// ParseWarning records a skipped ignore-pattern line. Parsing never aborts on it.
type ParseWarning struct {
	Source     string
	LineNumber int
	Line       string
	Message    string
}

// TraversalError records a subtree that could not be visited. Traversal continues elsewhere.
type TraversalError struct {
	Path string
	Err  error
}
