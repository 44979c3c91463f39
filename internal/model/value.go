// Package model defines the data types shared across extraction,
// reconciliation, and reporting.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind discriminates the Value variant.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
)

// Value is a cell value resolved once at extraction time: text, a number,
// or absent. Comparison logic only ever evaluates Number values.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// NoValue returns the absent Value.
func NoValue() Value {
	return Value{}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsText reports whether the value is text.
func (v Value) IsText() bool { return v.kind == KindText }

// Float returns the numeric value. ok is false for text and absent values.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value for display: numbers without trailing zeros,
// text verbatim, absent as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// ParseValue converts raw cell text to a Value. The whole trimmed string
// must parse as a number to yield Number; thousands separators are allowed
// ("1,015" parses as 1015). Anything else stays Text; empty stays Text("").
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	if strings.Contains(s, ",") {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			return Number(f)
		}
	}
	return Text(s)
}

// MarshalJSON encodes Number as a JSON number, Text as a string, Absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes null, numbers, and strings; other JSON types are
// stringified through their raw encoding.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = NoValue()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*v = Text(str)
		return nil
	}
	*v = Text(s)
	return nil
}
