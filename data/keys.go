package data

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key folds a medicine or condition name into its lookup form. Casers are
// stateful, so each call builds its own.
func Key(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// PairKey is the order independent key of an unordered medicine pair.
func PairKey(a, b string) string {
	ka, kb := Key(a), Key(b)
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + "\x00" + kb
}
