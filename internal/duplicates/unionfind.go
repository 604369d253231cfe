package duplicates

// mergeGroups treats each proposed group as an edge-equivalence class
// over its members and unions overlapping classes with a classic
// union-find, producing the final disjoint groups (spec §4.5.3). This
// is the correctness-restoring step; proposed groups may legitimately
// share members because two workers raced on an unsynchronized read
// of `processed`.
func mergeGroups(proposed [][]string) [][]string {
	parent := make(map[string]string)

	var find func(string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p != x {
			parent[x] = find(p)
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, group := range proposed {
		if len(group) == 0 {
			continue
		}
		first := group[0]
		find(first)
		for _, member := range group[1:] {
			union(first, member)
		}
	}

	byRoot := make(map[string][]string)
	for member := range parent {
		root := find(member)
		byRoot[root] = append(byRoot[root], member)
	}

	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		if len(members) >= 2 {
			out = append(out, members)
		}
	}
	return out
}
