package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/sedes-inventario/internal/application/dto"
)

// readProducts lee el CSV del catálogo. La primera fila es cabecera.
// Columnas: nombre, unidad, costo, stock_minimo, codigo_barras (las tres últimas opcionales).
func readProducts(r io.Reader, charset, sep string) ([]dto.CreateProductRequest, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado %q", charset)
	}
	cr := csv.NewReader(r)
	if sep != "" {
		cr.Comma = []rune(sep)[0]
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]dto.CreateProductRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		name := field(rec, 0)
		if name == "" {
			continue
		}
		p := dto.CreateProductRequest{Name: name, Unit: field(rec, 1), Barcode: field(rec, 4)}
		if s := field(rec, 2); s != "" {
			cost, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("línea %d: costo inválido %q", line, s)
			}
			p.StandardCost = cost
		}
		if s := field(rec, 3); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("línea %d: stock mínimo inválido %q", line, s)
			}
			p.MinStock = n
		}
		out = append(out, p)
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
