package bodyfmt

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadPalette reads a YAML theme from r. See ParsePalette.
func LoadPalette(r io.Reader) (*Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParsePalette(data)
}

// ParsePalette builds a palette from a YAML mapping of role names to color
// names:
//
//	key: green
//	string: default
//
// Roles that are not named keep their default color.
func ParsePalette(data []byte) (*Palette, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	m := make(map[Role]Color, len(raw))
	for name, value := range raw {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, err
		}
		m[role] = c
	}
	return NewPalette(m), nil
}

// MarshalYAML writes the palette as a role-to-color mapping in role order.
func (p *Palette) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range Roles() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: r.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Color(r).String()},
		)
	}
	return node, nil
}
