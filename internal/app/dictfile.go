package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/aden1s/ruphrasehints/internal/domain/hints"
	"github.com/aden1s/ruphrasehints/internal/ports"
)

// LoadDictionaryFile reads a dictionary from a YAML or JSON file.
func LoadDictionaryFile(path string) (*hints.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	dict, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

// ParseDictionary decodes a term mapping. Each value is either a two-item
// sequence [canonical, hint] or a mapping {canonical: ..., hint: ...}.
// Terms keep their file order and all strings are NFC-normalized.
// JSON input is accepted as a YAML flow mapping.
func ParseDictionary(data []byte) (*hints.Dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	dict, _ := hints.NewDictionary()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return dict, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return dict, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: dictionary must be a mapping of terms", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: term must be a string", key.Line)
		}
		term := normalize(key.Value)
		if term == "" {
			return nil, fmt.Errorf("line %d: empty term", key.Line)
		}
		canonical, hint, err := decodeDefinition(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: term %q: %w", val.Line, term, err)
		}
		if err := dict.Add(hints.Entry{Term: term, Canonical: canonical, Hint: hint}); err != nil {
			return nil, fmt.Errorf("line %d: %w", key.Line, err)
		}
	}
	return dict, nil
}

type definition struct {
	Canonical string `yaml:"canonical"`
	Hint      string `yaml:"hint"`
}

func decodeDefinition(n *yaml.Node) (string, string, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := n.Decode(&pair); err != nil {
			return "", "", err
		}
		if len(pair) != 2 {
			return "", "", fmt.Errorf("expected [canonical, hint], got %d items", len(pair))
		}
		return normalize(pair[0]), normalize(pair[1]), nil
	case yaml.MappingNode:
		var d definition
		if err := n.Decode(&d); err != nil {
			return "", "", err
		}
		return normalize(d.Canonical), normalize(d.Hint), nil
	}
	return "", "", fmt.Errorf("expected [canonical, hint] or {canonical, hint}")
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// WriteDictionary encodes entries in the file format read by ParseDictionary,
// one flow sequence per term.
func WriteDictionary(w io.Writer, entries []ports.TermEntry) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		root.Content = append(root.Content,
			strNode(e.Term),
			&yaml.Node{
				Kind:    yaml.SequenceNode,
				Style:   yaml.FlowStyle,
				Content: []*yaml.Node{strNode(e.Canonical), strNode(e.Hint)},
			},
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return enc.Close()
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
