package edits

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// Op selects what an Edit does to its field.
type Op int

const (
	OpSet Op = iota
	OpRemove
)

func (o Op) String() string {
	if o == OpRemove {
		return "remove"
	}
	return "set"
}

// Edit is a single field assignment or removal.
type Edit struct {
	Op    Op
	Field string
	Value string
}

func (e Edit) String() string {
	return fmt.Sprintf("%s %s=%q", e.Op, e.Field, e.Value)
}

// ParseAssignments converts "Field=Value" strings into edits with the given op.
// The value may be empty and may itself contain '='.
//
//	ParseAssignments(OpSet, []string{"Email=a@example.com", "Notes="})
func ParseAssignments(op Op, pairs []string) ([]Edit, error) {
	result := make([]Edit, 0, len(pairs))

	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: edit %q is not in Field=Value format (example: --set Email=a@example.com)", kmeta.ErrUsage, pair)
		}

		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("%w: edit has empty field name: %q", kmeta.ErrUsage, pair)
		}

		result = append(result, Edit{Op: op, Field: field, Value: value})
	}

	return result, nil
}

// LoadFile reads an edits file. Set edits come before remove edits.
func LoadFile(fsys filesystem.FileSystemProvider, path string) ([]Edit, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edits file: %w", err)
	}
	out, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Parse decodes edits file content. See the package documentation for the format.
func Parse(data []byte) ([]Edit, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", kmeta.ErrUsage, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: edits file must be a mapping with set and remove keys", kmeta.ErrUsage)
	}

	sections := map[string]*yaml.Node{}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		if key != "set" && key != "remove" {
			return nil, fmt.Errorf("%w: line %d: unknown section %q", kmeta.ErrUsage, doc.Content[i].Line, key)
		}
		sections[key] = doc.Content[i+1]
	}

	var result []Edit
	for _, section := range []struct {
		key string
		op  Op
	}{{"set", OpSet}, {"remove", OpRemove}} {
		node, ok := sections[section.key]
		if !ok {
			continue
		}
		parsed, err := parseSection(section.op, node)
		if err != nil {
			return nil, err
		}
		result = append(result, parsed...)
	}
	return result, nil
}

func parseSection(op Op, node *yaml.Node) ([]Edit, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: %s must map field names to values", kmeta.ErrUsage, node.Line, op)
	}

	var result []Edit
	for i := 0; i+1 < len(node.Content); i += 2 {
		field := strings.TrimSpace(node.Content[i].Value)
		if field == "" {
			return nil, fmt.Errorf("%w: line %d: empty field name", kmeta.ErrUsage, node.Content[i].Line)
		}

		value := node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			result = append(result, Edit{Op: op, Field: field, Value: scalar(value)})
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("%w: line %d: values of %q must be scalars", kmeta.ErrUsage, item.Line, field)
				}
				result = append(result, Edit{Op: op, Field: field, Value: scalar(item)})
			}
		default:
			return nil, fmt.Errorf("%w: line %d: value of %q must be a scalar or a list", kmeta.ErrUsage, value.Line, field)
		}
	}
	return result, nil
}

func scalar(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}
