package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/thomas-vilte/dash/internal/models"
)

type treeNode struct {
	name     string
	isFile   bool
	change   *models.FileChangeStat
	children map[string]*treeNode
}

// ShowFilesTree prints the changed files as a directory tree with their
// line counts. Files without stats are printed as a flat list.
func ShowFilesTree(header string, files []string, stats []models.FileChangeStat) {
	if len(files) == 0 {
		return
	}
	_, _ = fmt.Fprintf(Out, "\n%s\n", header)
	if len(stats) == 0 {
		for _, f := range files {
			_, _ = fmt.Fprintf(Out, "   • %s\n", f)
		}
		return
	}
	printTree(buildFileTree(stats), "", true)
}

func buildFileTree(changes []models.FileChangeStat) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for i := range changes {
		change := &changes[i]
		parts := strings.Split(change.Path, "/")
		current := root

		for j, part := range parts {
			isFile := j == len(parts)-1
			child := current.children[part]
			if child == nil {
				child = &treeNode{name: part, isFile: isFile, children: make(map[string]*treeNode)}
				current.children[part] = child
			}
			if isFile {
				child.change = change
			}
			current = child
		}
	}
	return root
}

func printTree(node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		stats := ""
		if node.change != nil {
			statsColor := color.New(color.FgGreen)
			if node.change.Deletions > node.change.Additions {
				statsColor = color.New(color.FgRed)
			}
			stats = statsColor.Sprintf(" (+%d, -%d)", node.change.Additions, node.change.Deletions)
		}

		_, _ = fmt.Fprintf(Out, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := sortedChildren(node)
	for i, key := range keys {
		printTree(node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortedChildren orders directories before files, then by name.
func sortedChildren(node *treeNode) []string {
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := node.children[keys[i]], node.children[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
	return keys
}
