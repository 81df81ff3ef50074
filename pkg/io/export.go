package io

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
)

// Encode writes doc to w in the given format. The output decodes back to an
// equal Document with [Decode].
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown description format %q", format)
	}
	return nil
}

// Export writes doc to a file, picking the format from the extension.
func Export(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Encode(f, doc, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Describe converts a built node tree back into its description. Debug
// nodes have no description and are rejected.
func Describe(n railroad.Node) (*Node, error) {
	switch v := n.(type) {
	case *railroad.Terminal:
		return &Node{Kind: KindTerminal, Text: v.Label(), Class: v.Class()}, nil
	case *railroad.NonTerminal:
		return &Node{Kind: KindNonTerminal, Text: v.Label(), Class: v.Class()}, nil
	case *railroad.Comment:
		return &Node{Kind: KindComment, Text: v.Label(), Class: v.Class()}, nil
	case *railroad.Empty:
		return &Node{Kind: KindEmpty}, nil
	case *railroad.Start:
		return &Node{Kind: KindStart}, nil
	case *railroad.End:
		return &Node{Kind: KindEnd}, nil
	case *railroad.SimpleStart:
		return &Node{Kind: KindSimpleStart}, nil
	case *railroad.SimpleEnd:
		return &Node{Kind: KindSimpleEnd}, nil
	case *railroad.Sequence:
		return describeParent(KindSequence, v.Children())
	case *railroad.Stack:
		return describeParent(KindStack, v.Children())
	case *railroad.HorizontalGrid:
		return describeParent(KindHGrid, v.Children())
	case *railroad.VerticalGrid:
		return describeParent(KindVGrid, v.Children())
	case *railroad.Choice:
		d, err := describeParent(KindChoice, v.Children())
		if err != nil {
			return nil, err
		}
		d.Through = v.Through()
		return d, nil
	case *railroad.Optional:
		d, err := describeParent(KindOptional, v.Children())
		if err != nil {
			return nil, err
		}
		if v.SkipsBelow() {
			d.Skip = "below"
		}
		return d, nil
	case *railroad.Repeat:
		children := v.Children()
		d, err := describeParent(KindRepeat, children[:1])
		if err != nil {
			return nil, err
		}
		if _, empty := children[1].(*railroad.Empty); !empty {
			if d.Repeat, err = Describe(children[1]); err != nil {
				return nil, err
			}
		}
		d.Above = v.LoopsAbove()
		return d, nil
	case *railroad.LabeledBox:
		children := v.Children()
		d, err := describeParent(KindBox, children[1:])
		if err != nil {
			return nil, err
		}
		label := children[0]
		if _, empty := label.(*railroad.Empty); empty {
			return d, nil
		}
		// Plain comments round-trip through the text shorthand.
		if c, ok := label.(*railroad.Comment); ok && c.Class() == "" {
			d.Text = c.Label()
			return d, nil
		}
		if d.Label, err = Describe(label); err != nil {
			return nil, err
		}
		return d, nil
	case *railroad.Link:
		d, err := describeParent(KindLink, v.Children())
		if err != nil {
			return nil, err
		}
		d.Href = v.Href()
		d.Target = strings.TrimPrefix(string(v.Target()), "_")
		return d, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "%s nodes cannot be described", railroad.Kind(n))
	}
}

func describeParent(kind string, children []railroad.Node) (*Node, error) {
	d := &Node{Kind: kind}
	for _, c := range children {
		cd, err := Describe(c)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, cd)
	}
	return d, nil
}
