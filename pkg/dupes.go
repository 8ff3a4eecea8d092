package dedupfiles

// DuplicateGroup represents a kept file and the duplicates found for it
type DuplicateGroup struct {
	Hash  string   `json:"hash" yaml:"hash"`
	Size  int64    `json:"size" yaml:"size"`
	Files []string `json:"files" yaml:"files"` // Files[0] is the kept survivor
	Count int      `json:"count" yaml:"count"`
}

// GroupPairs folds duplicate pairs into groups keyed by the kept file,
// in the order the kept files were first paired.
func GroupPairs(pairs []DuplicatePair) []DuplicateGroup {
	index := make(map[string]int)
	var groups []DuplicateGroup

	for _, pair := range pairs {
		i, ok := index[pair.Kept]
		if !ok {
			i = len(groups)
			index[pair.Kept] = i
			groups = append(groups, DuplicateGroup{
				Hash:  pair.Digest,
				Size:  pair.Size,
				Files: []string{pair.Kept},
				Count: 1,
			})
		}
		groups[i].Files = append(groups[i].Files, pair.Duplicate)
		groups[i].Count++
	}

	return groups
}
