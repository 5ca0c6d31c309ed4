package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound indicates the workflow config document does not exist.
	ErrNotFound = errors.New("workflow config not found")
	// ErrMalformed indicates the document could not be decoded.
	ErrMalformed = errors.New("workflow config malformed")
)

// document mirrors the top-level keys. Mapping sections are kept as nodes so
// that key order survives decoding.
type document struct {
	Project             *ProjectInfo       `yaml:"project_info"`
	WorkflowMapping     yaml.Node          `yaml:"ai_workflow_mapping"`
	WorkflowDefinitions map[string]any     `yaml:"workflow_definitions"`
	RecognitionPatterns recognitionPattern `yaml:"ai_recognition_patterns"`
	Settings            AutomationSettings `yaml:"automation_settings"`
}

type recognitionPattern struct {
	IntentDetection yaml.Node `yaml:"intent_detection"`
}

type rawOperation struct {
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Script      string   `yaml:"script"`
	Parameters  string   `yaml:"parameters"`
	PreActions  []string `yaml:"pre_actions"`
	PostActions []string `yaml:"post_actions"`
}

type rawIntent struct {
	Patterns  []string `yaml:"patterns"`
	Threshold *float64 `yaml:"confidence_threshold"`
	Action    string   `yaml:"action"`
}

// Load reads and decodes the document at path. The document may be JSON or
// YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading workflow config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load with the fallback policy applied: any failure yields
// Default() together with the error so the caller can report it.
func LoadOrDefault(path string) (*Catalog, error) {
	cat, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return cat, nil
}

// Parse decodes a workflow config document. A document whose first
// non-blank byte is '{' is read as JSON, anything else as YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := decodeDocument(data, &doc); err != nil {
		return nil, err
	}

	cat := Default()
	if doc.Project != nil {
		cat.Project = *doc.Project
	}
	if doc.WorkflowDefinitions != nil {
		cat.WorkflowDefinitions = doc.WorkflowDefinitions
	}
	cat.Settings = doc.Settings
	enabled := true
	if cat.Settings.AutoSave.Enabled == nil {
		cat.Settings.AutoSave.Enabled = &enabled
	}
	if cat.Settings.Logging.LogAllWorkflows == nil {
		cat.Settings.Logging.LogAllWorkflows = &enabled
	}

	categories, err := decodeCategories(&doc.WorkflowMapping)
	if err != nil {
		return nil, err
	}
	cat.Categories = categories

	intents, err := decodeIntents(&doc.RecognitionPatterns.IntentDetection)
	if err != nil {
		return nil, err
	}
	cat.Intents = intents

	return cat, nil
}

func decodeDocument(data []byte, doc *document) error {
	if !looksLikeJSON(data) {
		if err := yaml.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil
	}
	node, err := jsonNode(data)
	if err != nil {
		return err
	}
	if err := node.Decode(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func decodeCategories(node *yaml.Node) ([]*Category, error) {
	pairs, err := mappingPairs(node, "ai_workflow_mapping")
	if err != nil {
		return nil, err
	}

	categories := make([]*Category, 0, len(pairs))
	for _, p := range pairs {
		opPairs, err := mappingPairs(p.value, "ai_workflow_mapping."+p.key)
		if err != nil {
			return nil, err
		}

		category := &Category{Name: p.key}
		for _, op := range opPairs {
			var raw rawOperation
			if err := op.value.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: operation %s.%s: %v", ErrMalformed, p.key, op.key, err)
			}
			category.Operations = append(category.Operations, &Operation{
				Category:    p.key,
				Name:        op.key,
				Description: raw.Description,
				Keywords:    nonEmpty(raw.Keywords),
				Script:      strings.TrimSpace(raw.Script),
				Parameters:  raw.Parameters,
				PreActions:  raw.PreActions,
				PostActions: raw.PostActions,
			})
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func decodeIntents(node *yaml.Node) ([]*Intent, error) {
	pairs, err := mappingPairs(node, "ai_recognition_patterns.intent_detection")
	if err != nil {
		return nil, err
	}

	intents := make([]*Intent, 0, len(pairs))
	for _, p := range pairs {
		var raw rawIntent
		if err := p.value.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: intent %s: %v", ErrMalformed, p.key, err)
		}
		threshold := DefaultThreshold
		if raw.Threshold != nil {
			threshold = clamp(*raw.Threshold)
		}
		intents = append(intents, &Intent{
			Name:      p.key,
			Patterns:  raw.Patterns,
			Threshold: threshold,
			Action:    raw.Action,
		})
	}
	return intents, nil
}

type pair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns the key/value pairs of a mapping node in document
// order. An absent or null node is an empty mapping.
func mappingPairs(node *yaml.Node, path string) ([]pair, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrMalformed, path)
	}

	pairs := make([]pair, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if seen[key] {
			return nil, fmt.Errorf("%w: %s: duplicate key %q", ErrMalformed, path, key)
		}
		seen[key] = true
		pairs = append(pairs, pair{key: key, value: node.Content[i+1]})
	}
	return pairs, nil
}

func nonEmpty(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
