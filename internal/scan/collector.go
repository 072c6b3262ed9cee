package scan

import (
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"snapctx/internal/ignore"
	"snapctx/internal/types"
	"snapctx/internal/utils"
)

// FileCollector gathers the candidate file set with measured sizes. It must be
// configured with the same exclusion engine as the TreeBuilder of the run so
// the two views never diverge.
type FileCollector struct {
	Engine *ignore.Engine
	Logger *zap.Logger
	// MaxFileSizeBytes is the per-file ceiling; files above it are reported in
	// Oversized instead of Entries. Zero applies the default ceiling.
	MaxFileSizeBytes int64
}

// CollectResult holds the collected entries plus everything the caller needs
// for its size-warning workflow.
type CollectResult struct {
	Entries []types.FileEntry
	// Oversized lists files above the size ceiling. They stay visible in the
	// tree but are not candidates for content merging.
	Oversized []types.FileEntry
	// Errors records subtrees that could not be visited. Traversal continued
	// past each of them.
	Errors []types.TraversalError
	// TotalSizeBytes is the aggregate size of Entries.
	TotalSizeBytes int64
}

// Collect walks rootDirectoryPath and returns every non-excluded file with its
// measured size. Excluded directories are pruned before descent, so their
// contents are never stat-ed.
func (fileCollector *FileCollector) Collect(rootDirectoryPath string) (*CollectResult, error) {
	absoluteRootPath, resolveError := resolveRoot(rootDirectoryPath)
	if resolveError != nil {
		return nil, resolveError
	}

	maximumSizeBytes := fileCollector.MaxFileSizeBytes
	if maximumSizeBytes <= 0 {
		maximumSizeBytes = types.DefaultMaxFileSizeBytes
	}

	result := &CollectResult{}
	walkError := filepath.WalkDir(absoluteRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			result.Errors = append(result.Errors, types.TraversalError{Path: walkedPath, Err: accessError})
			fileCollector.warn("skipping inaccessible path", walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, absoluteRootPath)
		if relativePath == "." {
			return nil
		}
		if fileCollector.Engine.IsExcluded(relativePath, directoryEntry.IsDir()) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		entryInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			result.Errors = append(result.Errors, types.TraversalError{Path: walkedPath, Err: infoError})
			fileCollector.warn("unable to stat file", walkedPath, infoError)
			return nil
		}

		fileEntry := types.FileEntry{
			RelativePath: relativePath,
			AbsolutePath: walkedPath,
			SizeBytes:    entryInfo.Size(),
			IsBinary:     fileCollector.Engine.IsBinaryFile(walkedPath),
			LastModified: utils.FormatTimestamp(entryInfo.ModTime()),
		}
		if fileEntry.SizeBytes > maximumSizeBytes {
			result.Oversized = append(result.Oversized, fileEntry)
			return nil
		}
		result.Entries = append(result.Entries, fileEntry)
		result.TotalSizeBytes += fileEntry.SizeBytes
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return result, nil
}

func (fileCollector *FileCollector) warn(message string, path string, cause error) {
	if fileCollector.Logger == nil {
		return
	}
	fileCollector.Logger.Warn(message, zap.String("path", path), zap.Error(cause))
}
