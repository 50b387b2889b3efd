// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// Rank filters metas to those whose title fuzzy-matches the pattern, best
// score first. Ties keep the incoming recency order, so equally good matches
// still surface the most recently modified document.
func Rank(metas []types.DocumentMeta, pattern string) []types.DocumentMeta {
	algo.Init("default")

	patternRunes := []rune(strings.ToLower(pattern))
	slab := util.MakeSlab(16384, 1024)

	type scored struct {
		meta  types.DocumentMeta
		score int
	}
	var matched []scored
	for _, m := range metas {
		chars := util.ToChars([]byte(strings.ToLower(m.Title)))
		result, _ := algo.FuzzyMatchV2(false, false, true, &chars, patternRunes, false, slab)
		if result.Start < 0 {
			continue
		}
		matched = append(matched, scored{meta: m, score: result.Score})
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })

	out := make([]types.DocumentMeta, len(matched))
	for i, sc := range matched {
		out[i] = sc.meta
	}
	return out
}
