package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// looksLikeJSON reports whether the document is a JSON object. yaml.v3 does
// not accept every JSON escape (`\/`, surrogate pairs), so these documents
// take the gjson path instead.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// jsonNode converts a JSON document into a yaml node tree. Object members
// keep document order and duplicates are retained so mappingPairs can
// reject them.
func jsonNode(data []byte) (*yaml.Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	return resultNode(gjson.ParseBytes(data)), nil
}

func resultNode(r gjson.Result) *yaml.Node {
	switch {
	case r.IsObject():
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		r.ForEach(func(key, value gjson.Result) bool {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.String()},
				resultNode(value),
			)
			return true
		})
		return node
	case r.IsArray():
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		r.ForEach(func(_, value gjson.Result) bool {
			node.Content = append(node.Content, resultNode(value))
			return true
		})
		return node
	}

	switch r.Type {
	case gjson.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.String(), Style: yaml.DoubleQuotedStyle}
	case gjson.Number:
		tag := "!!int"
		if strings.ContainsAny(r.Raw, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: r.Raw}
	case gjson.True, gjson.False:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: r.Raw}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
