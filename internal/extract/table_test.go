package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/reconcile-cli/internal/model"
)

func TestTable_BasicExtraction(t *testing.T) {
	grid := Grid{
		{"Item", "Material", "Thickness", "Quantity"},
		{"1", "SPCC", "0.250", "1,000"},
		{"2", "SGCC", "0.030", "4500"},
	}

	items, err := Table(grid, "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].Key)
	assert.Equal(t, model.Text("SPCC"), items[0].Get("Material"))
	assert.Equal(t, model.Number(0.25), items[0].Get("Thickness"))
	// Comma-grouped cell parses as a number.
	assert.Equal(t, model.Number(1000), items[0].Get("Quantity"))
}

func TestTable_EmptyAndHeaderOnly(t *testing.T) {
	items, err := Table(nil, "Item")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = Table(Grid{{"Item", "Quantity"}}, "Item")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTable_MissingKeyColumn(t *testing.T) {
	_, err := Table(Grid{{"Line", "Quantity"}, {"1", "10"}}, "Item")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingKeyColumn))
	assert.Contains(t, err.Error(), `"Item"`)
}

func TestTable_MalformedRowsSkipped(t *testing.T) {
	grid := Grid{
		{"Item", "Quantity"},
		{"", "10"},  // empty key: skipped
		{nil, "11"}, // absent key: skipped
		{"3", "12"},
	}
	items, err := Table(grid, "Item")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].Key)
}

func TestTable_CellTyping(t *testing.T) {
	grid := Grid{
		{"Item", "Width", "Material", "Note"},
		{"1", 48.5, []any{"Cold", "Rolled"}, nil},
	}
	items, err := Table(grid, "Item")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Native numbers stay numeric.
	assert.Equal(t, model.Number(48.5), items[0].Get("Width"))
	// Nested sequences flatten with single spaces.
	assert.Equal(t, model.Text("Cold Rolled"), items[0].Get("Material"))
	// Absent cells become empty text.
	assert.Equal(t, model.Text(""), items[0].Get("Note"))
}

func TestTable_ShortRowPadsAbsentCells(t *testing.T) {
	grid := Grid{
		{"Item", "Quantity", "Note"},
		{"1", "10"},
	}
	items, err := Table(grid, "Item")
	require.NoError(t, err)
	assert.Equal(t, model.Text(""), items[0].Get("Note"))
}

type stubTranslator struct {
	out string
	err error
}

func (s stubTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func TestTranslateField_FallbackOnFailure(t *testing.T) {
	li := model.NewLineItem("1")
	li.Set("Material", model.Text("냉연강판"))
	li.Set("Quantity", model.Number(10))

	// Failure keeps the original text.
	got := TranslateField(context.Background(), []model.LineItem{li},
		stubTranslator{err: errors.New("boom")}, "Material", "en")
	assert.Equal(t, model.Text("냉연강판"), got[0].Get("Material"))

	// Success swaps it, and never touches numeric fields.
	got = TranslateField(context.Background(), []model.LineItem{li},
		stubTranslator{out: "Cold rolled sheet"}, "Material", "en")
	assert.Equal(t, model.Text("Cold rolled sheet"), got[0].Get("Material"))
	assert.Equal(t, model.Number(10), got[0].Get("Quantity"))

	// Inputs are immutable.
	assert.Equal(t, model.Text("냉연강판"), li.Get("Material"))
}
