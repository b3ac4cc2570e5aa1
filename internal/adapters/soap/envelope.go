package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"banguat/internal/adapters"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS      = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS      = "http://www.w3.org/2001/XMLSchema"
)

var ErrNoBody = errors.New("soap body not found")

// FaultError is a soap:Fault returned by the service.
type FaultError struct {
	Code    string
	Message string
}

func (e *FaultError) Error() string {
	if e.Code == "" {
		return "soap fault: " + e.Message
	}
	return fmt.Sprintf("soap fault %s: %s", e.Code, e.Message)
}

type fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

func encodeEnvelope(namespace, operation string, params []adapters.Param) ([]byte, error) {
	if operation == "" {
		return nil, errors.New("operation is required")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<soap:Envelope xmlns:xsi=%q xmlns:xsd=%q xmlns:soap=%q>`, xsiNS, xsdNS, envelopeNS)
	buf.WriteString("<soap:Body>")
	buf.WriteString("<" + operation + ` xmlns="`)
	if err := xml.EscapeText(&buf, []byte(namespace)); err != nil {
		return nil, err
	}
	buf.WriteString(`">`)
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("empty parameter name for %q", operation)
		}
		buf.WriteString("<" + p.Name + ">")
		if err := xml.EscapeText(&buf, []byte(p.Value)); err != nil {
			return nil, err
		}
		buf.WriteString("</" + p.Name + ">")
	}
	buf.WriteString("</" + operation + ">")
	buf.WriteString("</soap:Body></soap:Envelope>")
	return buf.Bytes(), nil
}

// decodeReply walks the envelope up to <operation>Response and returns its children as a tree.
func decodeReply(r io.Reader, operation string, lists map[string]struct{}) (adapters.Reply, error) {
	dec := xml.NewDecoder(r)
	inBody := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoBody
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case !inBody:
			inBody = start.Name.Local == "Body"
		case start.Name.Local == "Fault":
			var f fault
			if err = dec.DecodeElement(&f, &start); err != nil {
				return nil, err
			}
			return nil, &FaultError{Code: f.Code, Message: strings.TrimSpace(f.String)}
		case start.Name.Local == operation+"Response":
			node, err := decodeNode(dec, start, lists)
			if err != nil {
				return nil, err
			}
			if tree, ok := node.(map[string]any); ok {
				return tree, nil
			}
			return adapters.Reply{}, nil
		default:
			return nil, fmt.Errorf("unexpected element %q in soap body", start.Name.Local)
		}
	}
}

// decodeNode turns one element into map[string]any (has children), string (leaf) or nil (xsi:nil).
// Repeated siblings and names listed in lists always become []any.
func decodeNode(dec *xml.Decoder, start xml.StartElement, lists map[string]struct{}) (any, error) {
	children := make(map[string]any)
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			value, err := decodeNode(dec, t, lists)
			if err != nil {
				return nil, err
			}
			addChild(children, t.Name.Local, value, lists)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(children) > 0 {
				return children, nil
			}
			if isNil(start) {
				return nil, nil
			}
			return strings.TrimSpace(text.String()), nil
		}
	}
}

func addChild(children map[string]any, name string, value any, lists map[string]struct{}) {
	existing, seen := children[name]
	if !seen {
		if _, isList := lists[name]; isList {
			children[name] = []any{value}
			return
		}
		children[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		children[name] = append(list, value)
		return
	}
	children[name] = []any{existing, value}
}

func isNil(start xml.StartElement) bool {
	for _, attr := range start.Attr {
		if attr.Name.Local != "nil" {
			continue
		}
		if attr.Name.Space == xsiNS || attr.Name.Space == "xsi" {
			return attr.Value == "true" || attr.Value == "1"
		}
	}
	return false
}
