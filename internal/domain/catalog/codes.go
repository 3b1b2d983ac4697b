// Package catalog reúne las reglas puras del catálogo: códigos internos, códigos de barras
// y normalización de nombres.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCodePrefix prefijo de código interno por defecto.
const DefaultCodePrefix = "TC-ALM"

const internalCodeDigits = 6

var (
	barcodeRe      = regexp.MustCompile(`^[A-Z0-9\-]{4,32}$`)
	codePrefixRe   = regexp.MustCompile(`^[A-Z][A-Z0-9\-]*[A-Z0-9]$`)
	internalTailRe = regexp.MustCompile(`^\d{6}$`)
)

// NormalizeBarcode recorta y pasa a mayúsculas; vacío significa "sin código".
// Devuelve false si no cumple ^[A-Z0-9-]{4,32}$.
func NormalizeBarcode(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", true
	}
	return code, barcodeRe.MatchString(code)
}

// ValidPrefix valida un prefijo de código interno (ej. TC-ALM).
func ValidPrefix(prefix string) bool {
	return codePrefixRe.MatchString(prefix)
}

// FormatInternalCode arma PREFIJO-NNNNNN.
func FormatInternalCode(prefix string, n int) string {
	return fmt.Sprintf("%s-%0*d", prefix, internalCodeDigits, n)
}

// ParseInternalCode extrae el número de un código con el prefijo dado.
func ParseInternalCode(prefix, code string) (int, bool) {
	tail, ok := strings.CutPrefix(code, prefix+"-")
	if !ok || !internalTailRe.MatchString(tail) {
		return 0, false
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextInternalCode siguiente código a partir del mayor existente ("" si no hay ninguno).
func NextInternalCode(prefix, maxCode string) string {
	n, _ := ParseInternalCode(prefix, maxCode)
	return FormatInternalCode(prefix, n+1)
}

// NameKey normaliza un nombre para compararlo sin mayúsculas, tildes ni espacios repetidos:
// "Sede  Norte" y "sede nórte" producen la misma clave.
func NameKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	return strings.Join(strings.Fields(cases.Fold().String(plain)), " ")
}
