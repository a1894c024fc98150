package ingest

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column identifies the meaning of a table column.
type Column string

const (
	ColChapter  Column = "chapter"
	ColAmount   Column = "amount"
	ColWeight   Column = "weight"
	ColStart    Column = "start"
	ColDuration Column = "duration"
	ColMonth    Column = "month"
	ColUnits    Column = "units"
	ColPrice    Column = "price"
	ColSold     Column = "sold"
	ColDeed     Column = "deed"
)

// Header aliases, already normalised. Spanish and English exports are both common.
var columnAliases = map[Column][]string{
	ColChapter:  {"capitulo", "capitulos", "chapter", "partida", "concepto", "nombre", "name", "descripcion"},
	ColAmount:   {"importe", "amount", "coste", "cost", "presupuesto", "budget", "total", "euros", "pem"},
	ColWeight:   {"peso", "weight", "porcentaje", "percentage", "%", "peso %"},
	ColStart:    {"inicio", "start", "offset", "mes inicio", "start offset", "desfase"},
	ColDuration: {"duracion", "duration", "meses", "months", "plazo"},
	ColMonth:    {"mes", "month", "fecha", "date", "periodo"},
	ColUnits:    {"unidades", "units", "viviendas", "ventas", "sales", "uds"},
	ColPrice:    {"precio", "price", "precio venta", "sale price"},
	ColSold:     {"fecha venta", "sale date", "sold", "venta", "vendida"},
	ColDeed:     {"fecha escritura", "deed", "escritura", "deed date"},
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader lower-cases, strips accents and punctuation and collapses whitespace,
// so "Duración (meses)" and "duracion meses" compare equal.
func NormalizeHeader(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '%':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// fuzzyBudget is the edit distance tolerated for an alias: none for short words,
// one typo from five letters, two from eight.
func fuzzyBudget(alias string) int {
	switch n := len(alias); {
	case n >= 8:
		return 2
	case n >= 5:
		return 1
	default:
		return 0
	}
}

// MatchColumn maps a header to a column kind. Exact alias matches (on the whole header or its
// first word) win; otherwise the closest alias within its typo budget is used.
func MatchColumn(header string) (Column, bool) {
	h := NormalizeHeader(header)
	if h == "" {
		return "", false
	}
	first := strings.Fields(h)[0]

	for _, candidate := range []string{h, first} {
		for col, aliases := range columnAliases {
			for _, a := range aliases {
				if a == candidate {
					return col, true
				}
			}
		}
	}

	best, bestDist := Column(""), -1
	for col, aliases := range columnAliases {
		for _, a := range aliases {
			d := levenshtein.ComputeDistance(h, a)
			if d > fuzzyBudget(a) {
				continue
			}
			if bestDist < 0 || d < bestDist || (d == bestDist && col < best) {
				best, bestDist = col, d
			}
		}
	}
	return best, bestDist >= 0
}

// Columns resolves every header of t. When two headers map to the same kind the first wins.
func (t Table) Columns() map[Column]int {
	out := make(map[Column]int)
	for i, h := range t.Header {
		col, ok := MatchColumn(h)
		if !ok {
			continue
		}
		if _, seen := out[col]; !seen {
			out[col] = i
		}
	}
	return out
}

func index(cols map[Column]int, c Column) int {
	if i, ok := cols[c]; ok {
		return i
	}
	return -1
}
