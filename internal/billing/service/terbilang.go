package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var terbilangUnits = []string{
	"", "satu", "dua", "tiga", "empat", "lima",
	"enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas",
}

// Terbilang spells out an amount in Indonesian for printed receipts, e.g.
// 888000 becomes "delapan ratus delapan puluh delapan ribu rupiah". Fractions
// are dropped. Negative amounts spell the absolute value.
func Terbilang(amount decimal.Decimal) string {
	n := amount.Abs().IntPart()
	if n == 0 {
		return "nol rupiah"
	}
	words := strings.Fields(spellNumber(n))
	return strings.Join(words, " ") + " rupiah"
}

func spellNumber(n int64) string {
	switch {
	case n < 12:
		return terbilangUnits[n] + " "
	case n < 20:
		return spellNumber(n-10) + "belas "
	case n < 100:
		return spellNumber(n/10) + "puluh " + spellNumber(n%10)
	case n < 200:
		return "seratus " + spellNumber(n-100)
	case n < 1000:
		return spellNumber(n/100) + "ratus " + spellNumber(n%100)
	case n < 2000:
		return "seribu " + spellNumber(n-1000)
	case n < 1000000:
		return spellNumber(n/1000) + "ribu " + spellNumber(n%1000)
	case n < 1000000000:
		return spellNumber(n/1000000) + "juta " + spellNumber(n%1000000)
	case n < 1000000000000:
		return spellNumber(n/1000000000) + "miliar " + spellNumber(n%1000000000)
	default:
		return spellNumber(n/1000000000000) + "triliun " + spellNumber(n%1000000000000)
	}
}
