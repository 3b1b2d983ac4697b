package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sedes-inventario/internal/domain/catalog"
)

func TestNormalizeBarcode(t *testing.T) {
	got, ok := catalog.NormalizeBarcode("  7701234-ab ")
	assert.True(t, ok)
	assert.Equal(t, "7701234-AB", got)

	got, ok = catalog.NormalizeBarcode("   ")
	assert.True(t, ok, "vacío significa sin código")
	assert.Empty(t, got)

	_, ok = catalog.NormalizeBarcode("ABC")
	assert.False(t, ok)
	_, ok = catalog.NormalizeBarcode("ABC 1234")
	assert.False(t, ok)
}

func TestInternalCode(t *testing.T) {
	assert.Equal(t, "TC-ALM-000007", catalog.FormatInternalCode("TC-ALM", 7))

	n, ok := catalog.ParseInternalCode("TC-ALM", "TC-ALM-000123")
	assert.True(t, ok)
	assert.Equal(t, 123, n)
	_, ok = catalog.ParseInternalCode("TC-ALM", "TC-ALM-12")
	assert.False(t, ok)
	_, ok = catalog.ParseInternalCode("TC-ALM", "OTRO-000001")
	assert.False(t, ok)

	assert.Equal(t, "TC-ALM-000001", catalog.NextInternalCode("TC-ALM", ""))
	assert.Equal(t, "TC-ALM-000100", catalog.NextInternalCode("TC-ALM", "TC-ALM-000099"))

	assert.True(t, catalog.ValidPrefix("TC-ALM"))
	assert.False(t, catalog.ValidPrefix("tc-alm"))
	assert.False(t, catalog.ValidPrefix("TC-"))
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, catalog.NameKey("Sede  Norte"), catalog.NameKey("sede nórte"))
	assert.Equal(t, "bodega perez", catalog.NameKey("  Bodega   PÉREZ "))
	assert.NotEqual(t, catalog.NameKey("Norte"), catalog.NameKey("Sur"))
}
