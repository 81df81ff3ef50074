package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
)

const beginJSON = `{
  "name": "begin",
  "root": {
    "kind": "sequence",
    "children": [
      {"kind": "terminal", "text": "BEGIN"},
      {"kind": "nonterminal", "text": "syntax"}
    ]
  }
}`

const beginYAML = `
name: begin
root:
  kind: sequence
  children:
    - kind: terminal
      text: BEGIN
    - kind: nonterminal
      text: syntax
`

const beginTOML = `
name = "begin"

[root]
kind = "sequence"

[[root.children]]
kind = "terminal"
text = "BEGIN"

[[root.children]]
kind = "nonterminal"
text = "syntax"
`

func beginDoc() *Document {
	return &Document{
		Name: "begin",
		Root: &Node{Kind: KindSequence, Children: []*Node{
			{Kind: KindTerminal, Text: "BEGIN"},
			{Kind: KindNonTerminal, Text: "syntax"},
		}},
	}
}

// richDoc exercises every field that survives a round trip.
func richDoc() *Document {
	no := false
	return &Document{
		Name:       "select",
		Stylesheet: "dark",
		Markers:    &no,
		Root: &Node{Kind: KindStack, Children: []*Node{
			{Kind: KindSequence, Children: []*Node{
				{Kind: KindTerminal, Text: "SELECT", Class: "keyword"},
				{Kind: KindOptional, Skip: "below", Children: []*Node{
					{Kind: KindTerminal, Text: "DISTINCT"},
				}},
			}},
			{Kind: KindRepeat, Above: true,
				Children: []*Node{{Kind: KindNonTerminal, Text: "column"}},
				Repeat:   &Node{Kind: KindTerminal, Text: ","},
			},
			{Kind: KindChoice, Through: 1, Children: []*Node{
				{Kind: KindEmpty},
				{Kind: KindLink, Href: "#from", Target: "blank", Children: []*Node{
					{Kind: KindNonTerminal, Text: "from"},
				}},
				{Kind: KindBox, Text: "filter", Children: []*Node{
					{Kind: KindNonTerminal, Text: "where"},
				}},
			}},
		}},
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, beginJSON},
		{FormatYAML, beginYAML},
		{FormatTOML, beginTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(doc, beginDoc()) {
				t.Errorf("Decode = %+v, want %+v", doc, beginDoc())
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"root": {"kind": "empty", "txt": "x"}}`},
		{FormatYAML, "root:\n  kind: empty\n  txt: x\n"},
		{FormatTOML, "[root]\nkind = \"empty\"\ntxt = \"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Decode error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestDecodeRequiresRoot(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"name": "x"}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
	_, err = DecodeBytes(nil, FormatYAML)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("empty yaml error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".yml": FormatYAML, "YAML": FormatYAML, "toml": FormatTOML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
	if _, err := FormatFromPath("grammar"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath without extension error = %v", err)
	}
}

func TestBuild(t *testing.T) {
	d, err := beginDoc().Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Width() != 218 || d.Height() != 42 {
		t.Errorf("diagram size = %v x %v, want 218 x 42", d.Width(), d.Height())
	}
}

func TestBuildAppliesDocumentSettings(t *testing.T) {
	doc := richDoc()
	d, err := doc.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := d.Root().(*railroad.Stack); !ok {
		t.Errorf("root = %s, want the Stack without markers", railroad.Kind(d.Root()))
	}
	children := d.Document().Children()
	if len(children) != 2 || children[0].Name() != "style" {
		t.Fatalf("want a stylesheet before the diagram, got %d children", len(children))
	}
	if !strings.Contains(children[0].Content(), "hsl(220") {
		t.Errorf("want the dark stylesheet")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		code errors.Code
		at   string
	}{
		{
			name: "empty choice",
			root: &Node{Kind: KindSequence, Children: []*Node{{Kind: KindEmpty}, {Kind: KindChoice}}},
			code: errors.ErrCodeInvalidStructure,
			at:   "root.children[1]:",
		},
		{
			name: "unknown kind",
			root: &Node{Kind: KindSequence, Children: []*Node{{Kind: "bogus"}}},
			code: errors.ErrCodeInvalidInput,
			at:   "root.children[0]:",
		},
		{
			name: "missing kind",
			root: &Node{},
			code: errors.ErrCodeInvalidInput,
			at:   "root:",
		},
		{
			name: "optional with two children",
			root: &Node{Kind: KindOptional, Children: []*Node{{Kind: KindEmpty}, {Kind: KindEmpty}}},
			code: errors.ErrCodeInvalidStructure,
			at:   "root:",
		},
		{
			name: "bad skip",
			root: &Node{Kind: KindOptional, Skip: "left", Children: []*Node{{Kind: KindEmpty}}},
			code: errors.ErrCodeInvalidInput,
			at:   "root:",
		},
		{
			name: "leaf with children",
			root: &Node{Kind: KindTerminal, Text: "a", Children: []*Node{{Kind: KindEmpty}}},
			code: errors.ErrCodeInvalidInput,
			at:   "root:",
		},
		{
			name: "bad loop",
			root: &Node{Kind: KindRepeat, Children: []*Node{{Kind: KindEmpty}}, Repeat: &Node{Kind: KindTerminal, Text: "a\tb"}},
			code: errors.ErrCodeInvalidInput,
			at:   "root.repeat:",
		},
		{
			name: "bad href",
			root: &Node{Kind: KindLink, Href: "javascript:void(0)", Children: []*Node{{Kind: KindEmpty}}},
			code: errors.ErrCodeInvalidInput,
			at:   "root:",
		},
		{
			name: "through out of range",
			root: &Node{Kind: KindChoice, Through: 3, Children: []*Node{{Kind: KindEmpty}}},
			code: errors.ErrCodeInvalidStructure,
			at:   "root:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.root.Build(nil)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Build error = %v, want %s", err, tt.code)
			}
			if msg := errors.UserMessage(err); !strings.HasPrefix(msg, tt.at) {
				t.Errorf("message %q does not start with %q", msg, tt.at)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, richDoc(), format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(got, richDoc()) {
				t.Errorf("round trip changed the document:\n%s", buf.String())
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	want := richDoc().Root
	built, err := want.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := Describe(built)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		var a, b bytes.Buffer
		Encode(&a, &Document{Root: got}, FormatYAML)
		Encode(&b, &Document{Root: want}, FormatYAML)
		t.Errorf("Describe =\n%s\nwant\n%s", a.String(), b.String())
	}
}

func TestDescribeRejectsDebug(t *testing.T) {
	_, err := Describe(railroad.Must(railroad.NewDebug(1, 1, 0)))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "begin.yml")
	if err := os.WriteFile(path, []byte(strings.Replace(beginYAML, "name: begin\n", "", 1)), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "begin" {
		t.Errorf("Name = %q, want it taken from the file name", doc.Name)
	}

	out := filepath.Join(dir, "begin.toml")
	if err := Export(doc, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("Load exported: %v", err)
	}
	if !reflect.DeepEqual(again, beginDoc()) {
		t.Errorf("exported document = %+v", again)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bad)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad json error = %v", err)
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("error %q does not name the file", err)
	}
}
