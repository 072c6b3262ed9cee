// Package merge reads and concatenates the contents of an explicit file list,
// recording per-file failures without ever aborting the batch.
package merge

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"snapctx/internal/ignore"
	"snapctx/internal/types"
	"snapctx/internal/utils"
)

// ContentMerger resolves, validates, and reads the files selected for full
// inclusion in the context artifact.
type ContentMerger struct {
	// ProjectRoot anchors relative input paths.
	ProjectRoot string
	// Engine provides binary classification consistent with the rest of the run.
	Engine *ignore.Engine
	// MaxFileSizeBytes is the per-file ceiling. Zero applies the default.
	MaxFileSizeBytes int64
}

// Merge processes every requested path in order. Each result carries either
// the file content or a FileReadError naming the specific reason; one bad file
// never aborts the remaining batch. Output order matches the input list.
func (contentMerger *ContentMerger) Merge(filePaths []string) []types.MergeResult {
	maximumSizeBytes := contentMerger.MaxFileSizeBytes
	if maximumSizeBytes <= 0 {
		maximumSizeBytes = types.DefaultMaxFileSizeBytes
	}

	results := make([]types.MergeResult, 0, len(filePaths))
	for _, requestedPath := range filePaths {
		results = append(results, contentMerger.mergeOne(requestedPath, maximumSizeBytes))
	}
	return results
}

// mergeOne validates and reads a single file.
func (contentMerger *ContentMerger) mergeOne(requestedPath string, maximumSizeBytes int64) types.MergeResult {
	result := types.MergeResult{Path: requestedPath}

	absolutePath := requestedPath
	if !filepath.IsAbs(absolutePath) {
		absolutePath = filepath.Join(contentMerger.ProjectRoot, requestedPath)
	}

	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		reason := types.FailureUnreadable
		if os.IsNotExist(statError) {
			reason = types.FailureMissing
		}
		result.Failure = &types.FileReadError{Path: requestedPath, Reason: reason, Err: statError}
		return result
	}
	if fileInfo.IsDir() {
		result.Failure = &types.FileReadError{Path: requestedPath, Reason: types.FailureUnreadable}
		return result
	}
	if fileInfo.Size() > maximumSizeBytes {
		result.Failure = &types.FileReadError{Path: requestedPath, Reason: types.FailureOversized}
		return result
	}
	if contentMerger.Engine != nil && contentMerger.Engine.IsBinaryFile(absolutePath) {
		result.Failure = &types.FileReadError{Path: requestedPath, Reason: types.FailureBinary}
		return result
	}

	fileBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		result.Failure = &types.FileReadError{Path: requestedPath, Reason: types.FailureUnreadable, Err: readError}
		return result
	}

	result.Entry = &types.FileEntry{
		RelativePath: ignore.NormalizePath(utils.RelativePathOrSelf(absolutePath, contentMerger.ProjectRoot)),
		AbsolutePath: absolutePath,
		SizeBytes:    fileInfo.Size(),
		LastModified: utils.FormatTimestamp(fileInfo.ModTime()),
	}
	result.Content = decodeText(fileBytes)
	return result
}

// decodeText interprets file bytes as UTF-8 and falls back to a permissive
// decode that replaces invalid sequences, so text extraction cannot fail.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
