package mcp

import (
	"sort"
	"strings"
	"sync"
)

// ToolCategory represents the functional category of a tool.
type ToolCategory string

const (
	// CategoryIndex is for index lifecycle tools (create, list, get,
	// delete, info).
	CategoryIndex ToolCategory = "index"
	// CategoryVector is for vector mutation and search tools (insert,
	// upsert, query, get-by-ids, delete-by-ids).
	CategoryVector ToolCategory = "vector"
)

// ToolMetadata describes one registered MCP tool.
type ToolMetadata struct {
	// Name is the unique tool name (e.g., "vector_index_create").
	Name string `json:"name"`

	// Description is a human-readable description of what the tool does.
	Description string `json:"description"`

	// Category is the functional category of the tool.
	Category ToolCategory `json:"category"`

	// Keywords are additional searchable terms for this tool.
	Keywords []string `json:"keywords,omitempty"`
}

// ToolRegistry is an explicit name-to-metadata map built once at startup and
// passed by reference, replacing side-effecting registration against shared
// global state.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*ToolMetadata
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*ToolMetadata),
	}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool *ToolMetadata) {
	if tool == nil || tool.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
}

// Get returns the metadata for a specific tool.
func (r *ToolRegistry) Get(name string) (*ToolMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tool metadata sorted by name.
func (r *ToolRegistry) List() []*ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// ListByCategory returns all tools in a specific category sorted by name.
func (r *ToolRegistry) ListByCategory(category ToolCategory) []*ToolMetadata {
	result := make([]*ToolMetadata, 0)
	for _, tool := range r.List() {
		if tool.Category == category {
			result = append(result, tool)
		}
	}
	return result
}

// Search returns tools whose name, description or keywords contain the
// query, case-insensitively. An empty query matches nothing.
func (r *ToolRegistry) Search(query string) []*ToolMetadata {
	if query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)

	var results []*ToolMetadata
	for _, tool := range r.List() {
		if strings.Contains(strings.ToLower(tool.Name), queryLower) ||
			strings.Contains(strings.ToLower(tool.Description), queryLower) {
			results = append(results, tool)
			continue
		}
		for _, kw := range tool.Keywords {
			if strings.Contains(strings.ToLower(kw), queryLower) {
				results = append(results, tool)
				break
			}
		}
	}
	return results
}

// Count returns the total number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
