package model

// LineItem is one parsed document line, keyed by its line/item identifier.
// Items are built once during extraction and never mutated afterwards.
type LineItem struct {
	Key    string           `json:"key"`
	Fields map[string]Value `json:"fields"`

	// FieldOrder preserves the order fields were extracted in, so report
	// emission is deterministic. Go maps do not preserve insertion order.
	FieldOrder []string `json:"field_order"`
}

// NewLineItem creates an empty LineItem with the given key.
func NewLineItem(key string) LineItem {
	return LineItem{
		Key:    key,
		Fields: make(map[string]Value),
	}
}

// Set records a field value, appending to FieldOrder on first sight.
func (li *LineItem) Set(name string, v Value) {
	if _, seen := li.Fields[name]; !seen {
		li.FieldOrder = append(li.FieldOrder, name)
	}
	li.Fields[name] = v
}

// Get returns the named field value, or the absent Value when the field
// does not exist on this line.
func (li LineItem) Get(name string) Value {
	if v, ok := li.Fields[name]; ok {
		return v
	}
	return NoValue()
}
