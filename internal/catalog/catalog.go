// Package catalog holds the workflow registry loaded from the workflow config document.
package catalog

// DefaultThreshold is applied to intents that omit confidence_threshold.
const DefaultThreshold = 0.7

// Operation describes one runnable workflow entry.
type Operation struct {
	Category    string
	Name        string
	Description string
	Keywords    []string
	Script      string
	Parameters  string
	PreActions  []string
	PostActions []string
}

// Key returns the "category.operation" form used in logs and listings.
func (o *Operation) Key() string {
	return o.Category + "." + o.Name
}

// HasScript reports whether the operation references an executable.
func (o *Operation) HasScript() bool {
	return o.Script != ""
}

// Category is an ordered group of operations.
type Category struct {
	Name       string
	Operations []*Operation
}

// Intent is a named set of recognition patterns.
type Intent struct {
	Name      string
	Patterns  []string
	Threshold float64
	Action    string
}

// ProjectInfo is the project metadata block of the document.
type ProjectInfo struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Step    int    `yaml:"step"`
}

// AutomationSettings holds feature toggles.
type AutomationSettings struct {
	AutoSave struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"auto_save"`
	Logging struct {
		LogAllWorkflows *bool `yaml:"log_all_workflows"`
	} `yaml:"logging"`
}

// AutoSaveEnabled reports whether the auto_save_files hook saves. Absent means on.
func (s AutomationSettings) AutoSaveEnabled() bool {
	if s.AutoSave.Enabled == nil {
		return true
	}
	return *s.AutoSave.Enabled
}

// LoggingEnabled reports whether activity recording is on. Absent means on.
func (s AutomationSettings) LoggingEnabled() bool {
	if s.Logging.LogAllWorkflows == nil {
		return true
	}
	return *s.Logging.LogAllWorkflows
}

// Catalog is the read-only registry of categories, operations and intents.
// Enumeration order matches document order and is significant for matching.
type Catalog struct {
	Project             ProjectInfo
	Categories          []*Category
	Intents             []*Intent
	WorkflowDefinitions map[string]any
	Settings            AutomationSettings
}

// Default returns the empty-but-valid catalog used when no document can be read.
func Default() *Catalog {
	enabled := true
	c := &Catalog{
		Project: ProjectInfo{
			Name:    "flowctl",
			Version: "1.0.0",
			Step:    5,
		},
		WorkflowDefinitions: map[string]any{},
	}
	c.Settings.AutoSave.Enabled = &enabled
	c.Settings.Logging.LogAllWorkflows = &enabled
	return c
}

// Operations returns every operation in enumeration order.
func (c *Catalog) Operations() []*Operation {
	var ops []*Operation
	for _, cat := range c.Categories {
		ops = append(ops, cat.Operations...)
	}
	return ops
}

// Lookup finds an operation by category and name.
func (c *Catalog) Lookup(category, name string) (*Operation, bool) {
	for _, cat := range c.Categories {
		if cat.Name != category {
			continue
		}
		for _, op := range cat.Operations {
			if op.Name == name {
				return op, true
			}
		}
	}
	return nil, false
}

// OperationCount returns the total number of operations across categories.
func (c *Catalog) OperationCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Operations)
	}
	return n
}
