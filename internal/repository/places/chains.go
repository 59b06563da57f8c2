package places

import "strings"

// defaultChains lists known franchise and chain operators excluded from
// results to bias them toward independent shops. Tuned for the Canadian
// market; override per deployment via search.chain_denylist.
var defaultChains = []string{
	"canadian tire",
	"midas",
	"kal tire",
	"walmart",
	"costco",
	"jiffy lube",
	"valvoline instant oil change",
	"quick lube",
	"mr. lube",
	"great canadian oil change",
	"petro-canada",
	"shell",
	"chevron",
	"esso",
	"husky",
	"fountain tire",
	"active green+ross",
	"speedy auto service",
	"oil changers",
}

// ChainFilter excludes businesses whose name matches a denylisted chain.
type ChainFilter struct {
	names []string
}

// NewChainFilter builds a filter from the given names. Passing an empty
// list yields the built-in defaults.
func NewChainFilter(names []string) *ChainFilter {
	if len(names) == 0 {
		names = defaultChains
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	return &ChainFilter{names: lowered}
}

// Excluded reports whether the business name case-insensitively contains
// any denylisted chain name.
func (f *ChainFilter) Excluded(businessName string) bool {
	name := strings.ToLower(businessName)
	for _, chain := range f.names {
		if strings.Contains(name, chain) {
			return true
		}
	}
	return false
}
