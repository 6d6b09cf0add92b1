package docmodel

// GroupedIndex maps group slug -> entity type -> entities in input order.
type GroupedIndex map[string]map[string][]Entity

// ByGroupAndType buckets entities by each of their groups and by type. An
// entity listed in several groups appears in every one of them; input order
// is preserved within each bucket.
func ByGroupAndType(entities []Entity) GroupedIndex {
	index := make(GroupedIndex)
	for _, e := range entities {
		typ := e.Type()
		for _, slug := range e.Groups() {
			byType, ok := index[slug]
			if !ok {
				byType = make(map[string][]Entity)
				index[slug] = byType
			}
			byType[typ] = append(byType[typ], e)
		}
	}
	return index
}

// Count returns the number of (group, entity) placements in the index.
func (g GroupedIndex) Count() int {
	n := 0
	for _, byType := range g {
		for _, items := range byType {
			n += len(items)
		}
	}
	return n
}
