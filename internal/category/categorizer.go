// Package category derives the hierarchical category tree from resource
// id structure. It never mutates the loader's resource set —
// build_tree is a pure projection, and two builds over the same input
// produce structurally equal trees.
package category

import (
	"sort"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// Extract derives the Category for a single id.
func Extract(id string) model.Category {
	return model.ExtractCategory(id)
}

// BuildTree builds the full category tree over resources, keyed by primary
// then secondary segment, with resources ordered lexicographically by id
// within each node.
func BuildTree(resources []*model.Resource) *model.CategoryTree {
	root := &model.CategoryNode{Children: make(map[string]*model.CategoryNode)}

	for _, r := range resources {
		cat := Extract(r.ID)
		primary := childOf(root, cat.Primary)
		if cat.Secondary == "" {
			primary.Resources = append(primary.Resources, r)
			continue
		}
		secondary := childOf(primary, cat.Secondary)
		secondary.Resources = append(secondary.Resources, r)
	}

	sortTree(root)
	computeCounts(root)
	return &model.CategoryTree{Root: root}
}

func childOf(parent *model.CategoryNode, name string) *model.CategoryNode {
	if parent.Children == nil {
		parent.Children = make(map[string]*model.CategoryNode)
	}
	child, ok := parent.Children[name]
	if !ok {
		child = &model.CategoryNode{Name: name, Children: make(map[string]*model.CategoryNode)}
		parent.Children[name] = child
	}
	return child
}

func sortTree(n *model.CategoryNode) {
	sort.Slice(n.Resources, func(i, j int) bool { return n.Resources[i].ID < n.Resources[j].ID })
	for _, c := range n.Children {
		sortTree(c)
	}
}

func computeCounts(n *model.CategoryNode) int {
	count := len(n.Resources)
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		count += computeCounts(n.Children[name])
	}
	n.Count = count
	return count
}

// Query returns every resource whose primary (or primary-secondary "full")
// category name matches categoryName, including resources nested under
// matched node's secondary children.
func Query(tree *model.CategoryTree, categoryName string) []*model.Resource {
	node, ok := tree.Root.Children[categoryName]
	if ok {
		return collectResources(node)
	}
	// Fall back to searching one level deeper for a "full" name match.
	for _, child := range tree.Root.Children {
		for name, grandchild := range child.Children {
			if child.Name+"-"+name == categoryName {
				return collectResources(grandchild)
			}
		}
	}
	return nil
}

// collectResources gathers a node's own resources plus every descendant's,
// in the same deterministic child order computeCounts uses.
func collectResources(n *model.CategoryNode) []*model.Resource {
	out := append([]*model.Resource{}, n.Resources...)
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, collectResources(n.Children[name])...)
	}
	return out
}
