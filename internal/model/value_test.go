package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_Numbers(t *testing.T) {
	v := ParseValue("  0.250 ")
	require.True(t, v.IsNumber())
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 0.25, f)

	// Thousands separators are stripped before conversion.
	v = ParseValue("1,015")
	f, ok = v.Float()
	require.True(t, ok)
	assert.Equal(t, 1015.0, f)
}

func TestParseValue_Text(t *testing.T) {
	v := ParseValue("SPCC Cold Rolled")
	assert.True(t, v.IsText())
	assert.Equal(t, "SPCC Cold Rolled", v.String())

	// Partial numbers stay text: the whole string must parse.
	assert.True(t, ParseValue(`0.250"`).IsText())

	// Empty stays empty text, not absent.
	v = ParseValue("")
	assert.True(t, v.IsText())
	assert.Equal(t, "", v.String())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "0.2505", Number(0.2505).String())
	assert.Equal(t, "1000", Number(1000).String())
	assert.Equal(t, "", NoValue().String())
}

func TestValue_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{
		"n": Number(1.5),
		"t": Text("steel"),
		"a": NoValue(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1.5,"t":"steel","a":null}`, string(data))

	var got Value
	require.NoError(t, json.Unmarshal([]byte("12.5"), &got))
	assert.Equal(t, Number(12.5), got)
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &got))
	assert.Equal(t, Text("abc"), got)
	require.NoError(t, json.Unmarshal([]byte("null"), &got))
	assert.True(t, got.IsAbsent())
}

func TestLineItem_SetPreservesOrder(t *testing.T) {
	li := NewLineItem("1")
	li.Set("Thickness", Number(0.25))
	li.Set("Quantity", Number(1000))
	li.Set("Thickness", Number(0.251)) // overwrite must not duplicate order

	assert.Equal(t, []string{"Thickness", "Quantity"}, li.FieldOrder)
	assert.Equal(t, Number(0.251), li.Get("Thickness"))
	assert.True(t, li.Get("Width").IsAbsent())
}
