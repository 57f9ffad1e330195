package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
)

// MermaidOptions configures Mermaid diagram generation.
type MermaidOptions struct {
	Direction string // Layout direction: "TD" (top-down) or "LR" (left-right)
	ByGroup   bool   // Wrap the monsters of each group in a subgraph
	Title     string // Optional diagram title
}

// DefaultMermaidOptions returns sensible defaults for Mermaid diagram generation.
func DefaultMermaidOptions() *MermaidOptions {
	return &MermaidOptions{
		Direction: "LR",
		ByGroup:   true,
	}
}

// Mermaid renders the companion graph as a Mermaid flowchart. Nodes are
// labeled with display names and edges point from a monster to the
// companions it may bring along. Output is sorted for stable diffs.
func Mermaid(cat *catalog.Catalog, g *Graph, opts *MermaidOptions) string {
	if opts == nil {
		opts = DefaultMermaidOptions()
	}
	if opts.Direction != "TD" && opts.Direction != "LR" {
		opts.Direction = "LR"
	}

	var sb strings.Builder

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", escapeMermaidString(opts.Title)))
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", opts.Direction))

	nodes := g.Nodes()
	if opts.ByGroup {
		writeGroupedNodes(&sb, cat, nodes)
	} else {
		for _, id := range nodes {
			sb.WriteString(fmt.Sprintf("    %s\n", mermaidNode(cat, id)))
		}
	}

	for _, from := range nodes {
		targets := append([]string(nil), g.Successors(from)...)
		sort.Strings(targets)
		for _, to := range targets {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(from), sanitizeMermaidID(to)))
		}
	}

	return sb.String()
}

// writeGroupedNodes emits one subgraph per group in key order. Monsters
// whose group is not in the catalog are written outside any subgraph.
func writeGroupedNodes(sb *strings.Builder, cat *catalog.Catalog, nodes []string) {
	byGroup := make(map[string][]string)
	var loose []string
	for _, id := range nodes {
		m, ok := cat.Monster(id)
		if !ok {
			loose = append(loose, id)
			continue
		}
		if _, ok := cat.Group(m.GroupKey); !ok {
			loose = append(loose, id)
			continue
		}
		byGroup[m.GroupKey] = append(byGroup[m.GroupKey], id)
	}

	keys := make([]string, 0, len(byGroup))
	for k := range byGroup {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n",
			sanitizeMermaidID("group_"+key), escapeMermaidString(cat.DisplayName(key))))
		for _, id := range byGroup[key] {
			sb.WriteString(fmt.Sprintf("        %s\n", mermaidNode(cat, id)))
		}
		sb.WriteString("    end\n")
	}
	for _, id := range loose {
		sb.WriteString(fmt.Sprintf("    %s\n", mermaidNode(cat, id)))
	}
}

func mermaidNode(cat *catalog.Catalog, id string) string {
	return fmt.Sprintf("%s[\"%s\"]", sanitizeMermaidID(id), escapeMermaidString(cat.DisplayName(id)))
}

// sanitizeMermaidID converts a key to be valid in Mermaid.
// Mermaid IDs can contain alphanumeric chars and underscores.
var mermaidIDRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func sanitizeMermaidID(id string) string {
	sanitized := mermaidIDRegex.ReplaceAllString(id, "_")

	// Ensure it starts with a letter or underscore (not a digit)
	if len(sanitized) > 0 && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	if sanitized == "" {
		sanitized = "_empty"
	}

	return sanitized
}

// escapeMermaidString escapes special characters in Mermaid string content.
func escapeMermaidString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
