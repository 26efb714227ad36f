package consolidated

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// ctxCheckInterval is how many tokens are read between context checks.
const ctxCheckInterval = 4096

// element is a parsed XML element. Text holds the character data that
// appears before the first child element.
type element struct {
	Name     string
	Text     string
	Children []*element
}

// child returns the first direct child with the given local name.
func (e *element) child(name string) *element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns every direct child with the given local name.
func (e *element) childrenNamed(name string) []*element {
	var out []*element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// childText returns the leading text of the first child named name and
// whether such a child exists.
func (e *element) childText(name string) (string, bool) {
	c := e.child(name)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// building tracks an element while its children are still being read.
type building struct {
	el       *element
	text     strings.Builder
	sawChild bool
}

// parseTree reads a whole document into an element tree. Any syntax error,
// a document without a root element, or content after the root element is
// reported as domain.ErrMalformedDocument.
func parseTree(ctx context.Context, r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		root   *element
		stack  []*building
		tokens int
	)

	for {
		tokens++
		if tokens%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("%w: element <%s> after the root element", domain.ErrMalformedDocument, t.Name.Local)
			}
			el := &element{Name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				if !parent.sawChild {
					parent.sawChild = true
					parent.el.Text = parent.text.String()
				}
				parent.el.Children = append(parent.el.Children, el)
			} else {
				root = el
			}
			stack = append(stack, &building{el: el})

		case xml.EndElement:
			top := stack[len(stack)-1]
			if !top.sawChild {
				top.el.Text = top.text.String()
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("%w: text outside the root element", domain.ErrMalformedDocument)
				}
				continue
			}
			top := stack[len(stack)-1]
			if !top.sawChild {
				top.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrMalformedDocument)
	}
	return root, nil
}

// charsetReader decodes non UTF-8 documents using the IANA registry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
