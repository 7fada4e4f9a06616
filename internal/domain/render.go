package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LineKind classifies a rendered event line.
type LineKind int

const (
	// LineField is a plain "key: value" line.
	LineField LineKind = iota
	// LineItem is a non-mapping element of a sequence.
	LineItem
	// LineHeader opens a nested mapping; Index is 1-based for sequence elements, 0 otherwise.
	LineHeader
	// LineLink is a string value under a key containing "link".
	LineLink
)

const (
	headerBullet = "🔹"
	itemBullet   = "•"
	linkLabel    = "🔗 Link"
)

// Line is one row of a rendered event.
type Line struct {
	Depth int
	Kind  LineKind
	Key   string
	Value string
	Index int
}

// Label is the display label of a header line, e.g. "cmeAnalyses [1]".
func (l Line) Label() string {
	if l.Index > 0 {
		return fmt.Sprintf("%s [%d]", l.Key, l.Index)
	}
	return l.Key
}

// Text formats the line for plain-text output, indented one space per depth.
func (l Line) Text() string {
	indent := strings.Repeat(" ", l.Depth)
	switch l.Kind {
	case LineHeader:
		return fmt.Sprintf("%s%s %s", indent, headerBullet, l.Label())
	case LineItem:
		return fmt.Sprintf("%s%s %s: %s", indent, itemBullet, l.Key, l.Value)
	case LineLink:
		return fmt.Sprintf("%s%s: %s (%s)", indent, l.Key, linkLabel, l.Value)
	default:
		return fmt.Sprintf("%s%s: %s", indent, l.Key, l.Value)
	}
}

// RenderEvent flattens an event into indented display lines, visiting every
// key in document order.
//
// Every key yields at least one line. A key holding a mapping gets a header
// line (Index 0) before its nested fields, and a key holding an empty sequence
// renders as "key: []". A plain recursive print would emit nothing for
// either, leaving those keys invisible.
func RenderEvent(e Event) []Line {
	r := &renderer{}
	for _, key := range e.Keys() {
		v, _ := e.Get(key)
		r.value(key, v, 0)
	}
	return r.lines
}

type renderer struct {
	lines []Line
}

func (r *renderer) emit(l Line) {
	r.lines = append(r.lines, l)
}

func (r *renderer) value(key string, v any, depth int) {
	switch val := v.(type) {
	case *Object:
		r.emit(Line{Depth: depth, Kind: LineHeader, Key: key})
		r.fields(val, depth+1)
	case []any:
		if len(val) == 0 {
			r.emit(Line{Depth: depth, Kind: LineField, Key: key, Value: "[]"})
			return
		}
		for i, item := range val {
			if obj, ok := item.(*Object); ok {
				r.emit(Line{Depth: depth, Kind: LineHeader, Key: key, Index: i + 1})
				r.fields(obj, depth+1)
				continue
			}
			r.emit(Line{Depth: depth, Kind: LineItem, Key: key, Value: FormatScalar(item)})
		}
	default:
		if s, ok := v.(string); ok && isLinkKey(key) {
			r.emit(Line{Depth: depth, Kind: LineLink, Key: key, Value: s})
			return
		}
		r.emit(Line{Depth: depth, Kind: LineField, Key: key, Value: FormatScalar(v)})
	}
}

func (r *renderer) fields(obj *Object, depth int) {
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		r.value(key, v, depth)
	}
}

func isLinkKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "link")
}

// FormatScalar renders a decoded JSON value as display text. Strings are
// returned verbatim; anything else is shown in its JSON form.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
