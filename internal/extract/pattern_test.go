package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/reconcile-cli/internal/model"
)

const samplePO = `ACME STEEL TRADING CO.
Purchase Order No. 8841
Attn: orders@acmesteel.example

1 SPCC Cold Rolled 0.250" x 48.000" 10,000 LBS $0.52
2 SGCC Galvanized 0.030" x 36.500" 4,500 lbs $0.71
3 Hot Rolled Coil A36 0.375" x 60.000" 22,050 KG $0.44

Terms: FOB Busan, net 30
TOTAL 36,550
`

func TestLines_ExtractsMatchingLines(t *testing.T) {
	items := Lines(samplePO)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "1", first.Key)
	assert.Equal(t, model.Text("SPCC Cold Rolled"), first.Get(FieldMaterial))
	assert.Equal(t, model.Number(0.250), first.Get(FieldThickness))
	assert.Equal(t, model.Number(48.0), first.Get(FieldWidth))
	// Thousands separator stripped.
	assert.Equal(t, model.Number(10000), first.Get(FieldQuantity))
	assert.Equal(t, model.Number(0.52), first.Get(FieldUnitPrice))

	// Unit token is case-insensitive and normalized.
	assert.Equal(t, model.Text("LBS"), items[1].Get(FieldUnit))
	assert.Equal(t, model.Text("KG"), items[2].Get(FieldUnit))
}

func TestLines_SkipsNonDataLinesSilently(t *testing.T) {
	// Headers, addresses, and totals never panic or produce records.
	items := Lines("PURCHASE ORDER\nno line items here\nTOTAL 36,550\n")
	assert.Empty(t, items)

	// Empty input likewise.
	assert.Empty(t, Lines(""))
}

func TestLines_FieldOrderIsStable(t *testing.T) {
	items := Lines(samplePO)
	require.NotEmpty(t, items)
	assert.Equal(t,
		[]string{FieldMaterial, FieldThickness, FieldWidth, FieldQuantity, FieldUnit, FieldUnitPrice},
		items[0].FieldOrder,
	)
}
