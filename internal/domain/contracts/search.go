package contracts

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

func searchText(c Contract) string {
	return strings.Join([]string{c.FullName(), c.NumeroIdentificacion, c.Cargo, c.EmpresaInterna}, " ")
}

// Search keeps contracts matching q, best matches first. An empty query keeps everything in order.
func Search(items []Contract, q string) []Contract {
	q = strings.TrimSpace(q)
	if q == "" {
		return items
	}
	targets := make([]string, len(items))
	for i, c := range items {
		targets[i] = searchText(c)
	}
	ranks := fuzzy.RankFindNormalizedFold(q, targets)
	sort.Stable(ranks)

	out := make([]Contract, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, items[rank.OriginalIndex])
	}
	return out
}
