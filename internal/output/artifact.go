package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"snapctx/internal/types"
)

// headerSeparator frames each included file's header block.
var headerSeparator = strings.Repeat("=", 80)

// artifactUsageInstructions explains to the model how to work with the artifact.
const artifactUsageInstructions = `## How to Use This File
1. The tree structure below shows ALL available files in the project
2. Some key files are included in full after the tree
3. During conversation, you can request the contents of any file shown in the tree
`

// ArtifactMetadata captures the header fields of a context artifact.
type ArtifactMetadata struct {
	// ProjectPath is the absolute path of the scanned project.
	ProjectPath string
	// GeneratedAt is the artifact generation timestamp.
	GeneratedAt time.Time
}

// WriteArtifact writes the complete context artifact: metadata header, usage
// instructions, the rendered tree, then the merged file contents. Files that
// failed to merge are listed with their reason so the artifact is still
// produced when parts of the batch failed.
func WriteArtifact(writer io.Writer, metadata ArtifactMetadata, rootNode *types.TreeNode, mergeResults []types.MergeResult) error {
	generatedAt := metadata.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	if _, writeError := fmt.Fprintf(writer, "# Project Context File\nGenerated on: %s\nProject Path: %s\n\n",
		generatedAt.Format("2006-01-02 15:04:05"), metadata.ProjectPath); writeError != nil {
		return writeError
	}
	if _, writeError := io.WriteString(writer, artifactUsageInstructions); writeError != nil {
		return writeError
	}

	if _, writeError := fmt.Fprintf(writer, "\n## Available Files\n\n%s\n", RenderTree(rootNode)); writeError != nil {
		return writeError
	}

	if _, writeError := io.WriteString(writer, "\n## Included File Contents\nThe following files are included in full:\n"); writeError != nil {
		return writeError
	}

	for _, result := range mergeResults {
		if writeError := writeMergeResult(writer, result); writeError != nil {
			return writeError
		}
	}
	return nil
}

// writeMergeResult writes one file section: a framed header followed by the
// content, or the failure reason when the file could not be merged.
func writeMergeResult(writer io.Writer, result types.MergeResult) error {
	if result.Failure != nil {
		_, writeError := fmt.Fprintf(writer, "\n%s\nFile: %s\n[not included: %s]\n%s\n",
			headerSeparator, result.Path, result.Failure.Reason, headerSeparator)
		return writeError
	}

	if _, writeError := fmt.Fprintf(writer, "\n%s\nFile: %s\nSize: %d bytes\nLast modified: %s\n%s\n\n",
		headerSeparator, result.Path, result.Entry.SizeBytes, result.Entry.LastModified, headerSeparator); writeError != nil {
		return writeError
	}
	if _, writeError := io.WriteString(writer, result.Content); writeError != nil {
		return writeError
	}
	if !strings.HasSuffix(result.Content, "\n") {
		if _, writeError := io.WriteString(writer, "\n"); writeError != nil {
			return writeError
		}
	}
	_, writeError := io.WriteString(writer, "\n")
	return writeError
}
