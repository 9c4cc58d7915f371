// Package chart builds the vector chart a Fabric is rendered to: the
// namespaced element tree spec'd as an abstract Document (boxes, grid,
// rulers, stitch-text layer, tally panels), serialized as SVG.
package chart

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Element is one node of the tree a Document is built from. The
// exported operations mirror the abstract contract: add_child,
// add_text, add_attribute, add_attribute_ns.
type Element struct {
	name     string
	attrs    []xml.Attr
	children []*Element
	text     string
}

func newElement(name string) *Element {
	return &Element{name: name}
}

// AddChild appends child to e's children and returns e for chaining.
func (e *Element) AddChild(child *Element) *Element {
	e.children = append(e.children, child)
	return e
}

// AddText sets e's character content.
func (e *Element) AddText(text string) *Element {
	e.text = text
	return e
}

// AddAttribute sets an unprefixed attribute.
func (e *Element) AddAttribute(name, value string) *Element {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// AddAttributeNS sets an attribute under an explicit namespace prefix,
// e.g. AddAttributeNS("xlink", "href", "#thread-3") emits
// xlink:href="#thread-3". The tree only ever needs one such namespace,
// so the prefix is baked into the attribute's local name rather than
// resolved through encoding/xml's URI-keyed namespace machinery.
func (e *Element) AddAttributeNS(prefix, name, value string) *Element {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: prefix + ":" + name}, Value: value})
	return e
}

// AddNamespace declares an xmlns:prefix attribute on e.
func (e *Element) AddNamespace(prefix, uri string) *Element {
	return e.AddAttribute("xmlns:"+prefix, uri)
}

// Document is the root of a chart's element tree.
type Document struct {
	root *Element
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement builds a detached Element; wire it in with AddChild or
// install it as the document root with SetRoot.
func (d *Document) CreateElement(name string) *Element {
	return newElement(name)
}

// SetRoot installs e as the document's single top-level element.
func (d *Document) SetRoot(e *Element) {
	d.root = e
}

// WriteTo serializes the document as an XML document via
// encoding/xml's token-level Encoder.
func (d *Document) WriteTo(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	if err := d.root.encode(enc); err != nil {
		return err
	}

	return enc.Flush()
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encoding <%s>: %w", e.name, err)
	}

	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return fmt.Errorf("encoding text of <%s>: %w", e.name, err)
		}
	}

	for _, child := range e.children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// Float formats a coordinate/length for an SVG attribute: no trailing
// zeros, no scientific notation.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Int formats an integer for an SVG attribute or text node.
func Int(v int) string {
	return strconv.Itoa(v)
}
