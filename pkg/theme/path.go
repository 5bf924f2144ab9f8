package theme

// SetPath stores value at the nested location described by path, creating
// intermediate maps as needed. An intermediate that holds anything other than
// a map is replaced by a fresh map, and an existing leaf is overwritten, so the
// last write wins at every level. An empty path is a no-op.
func SetPath(m map[string]any, path []string, value any) {
	if m == nil || len(path) == 0 {
		return
	}

	cur := m
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}

	cur[path[len(path)-1]] = value
}

// GetPath returns the value stored at path and whether it exists.
func GetPath(m map[string]any, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var cur any = m
	for _, seg := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = node[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}
