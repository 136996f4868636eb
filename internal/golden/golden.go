// Package golden reads compiler test cases written as Markdown.
//
// A case starts at a heading "Test: <name>" and runs until the next such
// heading. It holds exactly one input fence and at least one assertion
// fence:
//
//	## Test: int widens on return
//
//	```lplus
//	float f() { return 1; }
//	```
//
//	```jasmin
//	...
//	```
//
// Prose and unlabeled code blocks between fences are ignored, so a test file
// doubles as documentation.
package golden

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLanguage is the fence language of a case's L+ source.
const InputLanguage = "lplus"

// Kind is the fence language of an assertion.
type Kind string

const (
	// Jasmin holds the expected assembly for the whole class.
	Jasmin Kind = "jasmin"

	// Diagnostics holds the expected user errors, one per line.
	Diagnostics Kind = "diagnostics"

	// Folded holds the expected program after optimization, as printed.
	Folded Kind = "folded"
)

func (k Kind) valid() bool {
	return k == Jasmin || k == Diagnostics || k == Folded
}

// Assertion is one expectation of a case.
type Assertion struct {
	Kind    Kind
	Content string // trailing newlines trimmed
	Line    int    // first content line of the fence in the Markdown file
}

// Case is one test extracted from a Markdown file.
type Case struct {
	Name       string
	Input      string
	Line       int // line of the heading
	Assertions []Assertion
}

// Expect returns the content of the first assertion of the given kind.
func (c *Case) Expect(kind Kind) (string, bool) {
	for _, a := range c.Assertions {
		if a.Kind == kind {
			return a.Content, true
		}
	}
	return "", false
}

// Load reads and extracts the cases of the Markdown file at path.
func Load(path string) ([]Case, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in order.
func Extract(src []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	lines := newLineIndex(src)

	var cases []Case
	var current *Case

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := current.validate(); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := headingText(n, src)
			name, ok := strings.CutPrefix(title, "Test: ")
			if !ok {
				return ast.WalkSkipChildren, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimSpace(name), Line: lines.of(n)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(src))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lines.of(n)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
			}
			content := strings.TrimRight(fenceContent(n, src), "\n")

			if lang == InputLanguage {
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: second %s fence in test %q", line, lang, current.Name)
				}
				current.Input = content
				return ast.WalkContinue, nil
			}
			if !Kind(lang).valid() {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, current.Name)
			}
			current.Assertions = append(current.Assertions, Assertion{
				Kind:    Kind(lang),
				Content: content,
				Line:    line,
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Case) validate() error {
	if c.Input == "" {
		return fmt.Errorf("line %d: test %q has no %s fence", c.Line, c.Name, InputLanguage)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test %q has no assertion fences", c.Line, c.Name)
	}
	return nil
}

func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	segments := block.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// of returns the line n starts on. Headings hold their text as inline
// children, which carry segments but no lines.
func (idx lineIndex) of(n ast.Node) int {
	offset := 0
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		offset = n.Lines().At(0).Start
	} else if t, ok := n.FirstChild().(*ast.Text); ok {
		offset = t.Segment.Start
	}

	lo, hi := 0, len(idx)
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if idx[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + 1
}
