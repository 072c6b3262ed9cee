// Package scan walks the project directory, consulting the exclusion engine
// before every descent so excluded subtrees are pruned rather than filtered.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"snapctx/internal/ignore"
	"snapctx/internal/types"
	"snapctx/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootMissingFormat is used when the root path does not exist.
	errorRootMissingFormat = "root path %s does not exist"
	// errorRootNotDirectoryFormat is used when the root path is not a directory.
	errorRootNotDirectoryFormat = "root path %s is not a directory"
)

// TreeBuilder builds ordered directory tree nodes using a shared exclusion engine.
type TreeBuilder struct {
	Engine *ignore.Engine
	Logger *zap.Logger
}

// Build walks rootDirectoryPath and returns the root tree node. The root path
// missing or not being a directory is fatal: there is nothing to traverse.
// Unreadable subdirectories are annotated inline and never abort the walk.
func (treeBuilder *TreeBuilder) Build(rootDirectoryPath string) (*types.TreeNode, error) {
	absoluteRootPath, resolveError := resolveRoot(rootDirectoryPath)
	if resolveError != nil {
		return nil, resolveError
	}

	rootNode := &types.TreeNode{
		Name: filepath.Base(absoluteRootPath),
		Path: absoluteRootPath,
		Type: types.NodeTypeDirectory,
	}
	childNodes, rootReadable := treeBuilder.buildChildNodes(absoluteRootPath, absoluteRootPath)
	if !rootReadable {
		rootNode.Unreadable = true
	}
	rootNode.Children = childNodes
	return rootNode, nil
}

// buildChildNodes lists one directory, prunes excluded entries, and recurses
// into the surviving subdirectories. Children are ordered directories first,
// then case-insensitively by name, independent of OS iteration order.
// The second result is false when the directory itself could not be read.
func (treeBuilder *TreeBuilder) buildChildNodes(currentDirectoryPath string, rootDirectoryPath string) ([]*types.TreeNode, bool) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		treeBuilder.warn("unreadable directory", currentDirectoryPath, readDirectoryError)
		return nil, false
	}
	sortEntries(directoryEntries)

	var nodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		isDirectory := directoryEntry.IsDir()
		if treeBuilder.Engine.IsExcluded(relativeChildPath, isDirectory) {
			continue
		}

		node := &types.TreeNode{
			Name: directoryEntry.Name(),
			Path: childPath,
		}

		if isDirectory {
			node.Type = types.NodeTypeDirectory
			childNodes, childReadable := treeBuilder.buildChildNodes(childPath, rootDirectoryPath)
			if childReadable {
				node.Children = childNodes
			} else {
				node.Unreadable = true
			}
		} else {
			if treeBuilder.Engine.IsBinaryFile(childPath) {
				node.Type = types.NodeTypeBinary
			} else {
				node.Type = types.NodeTypeFile
			}
			entryInfo, infoError := directoryEntry.Info()
			if infoError != nil {
				treeBuilder.warn("unable to stat file", childPath, infoError)
			} else {
				node.SizeBytes = entryInfo.Size()
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, true
}

func (treeBuilder *TreeBuilder) warn(message string, path string, cause error) {
	if treeBuilder.Logger == nil {
		return
	}
	treeBuilder.Logger.Warn(message, zap.String("path", path), zap.Error(cause))
}

// resolveRoot validates the traversal root shared by tree building and collection.
func resolveRoot(rootDirectoryPath string) (string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInfo, rootStatError := os.Stat(cleanedRootPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return "", fmt.Errorf(errorRootMissingFormat, cleanedRootPath)
		}
		return "", fmt.Errorf("stat root path %s: %w", cleanedRootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(errorRootNotDirectoryFormat, cleanedRootPath)
	}
	return cleanedRootPath, nil
}

// sortEntries orders directory entries directories-first, then case-insensitively by name.
func sortEntries(entries []os.DirEntry) {
	sort.Slice(entries, func(first, second int) bool {
		if entries[first].IsDir() != entries[second].IsDir() {
			return entries[first].IsDir()
		}
		return strings.ToLower(entries[first].Name()) < strings.ToLower(entries[second].Name())
	})
}
