// Package output renders trees and assembles the context artifact.
package output

import (
	"strings"

	"snapctx/internal/types"
)

const (
	treeConnectorMiddle = "├── "
	treeConnectorLast   = "└── "
	treeExtensionMiddle = "│   "
	treeExtensionLast   = "    "

	// unreadableAnnotation marks directories the walker could not open.
	unreadableAnnotation = " [unreadable]"
)

// RenderTree renders the tree as text lines using box-drawing connectors.
// The root directory name is the top line; directories carry a trailing slash.
func RenderTree(rootNode *types.TreeNode) string {
	if rootNode == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(rootNode.Name)
	if rootNode.Unreadable {
		builder.WriteString(unreadableAnnotation)
	}
	builder.WriteString("\n")
	renderChildren(&builder, rootNode.Children, "")
	return builder.String()
}

func renderChildren(builder *strings.Builder, children []*types.TreeNode, prefix string) {
	for index, child := range children {
		connector := treeConnectorMiddle
		extension := treeExtensionMiddle
		if index == len(children)-1 {
			connector = treeConnectorLast
			extension = treeExtensionLast
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(child.Name)
		if child.Type == types.NodeTypeDirectory {
			builder.WriteString("/")
			if child.Unreadable {
				builder.WriteString(unreadableAnnotation)
			}
		}
		builder.WriteString("\n")

		if child.Type == types.NodeTypeDirectory {
			renderChildren(builder, child.Children, prefix+extension)
		}
	}
}
