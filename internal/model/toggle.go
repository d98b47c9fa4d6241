package model

// Contains reports whether id is in ids.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes every occurrence of id from ids when present and appends it
// otherwise. The input slice is never modified.
func Toggle(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	if Contains(ids, id) {
		for _, v := range ids {
			if v != id {
				out = append(out, v)
			}
		}
		return out
	}
	out = append(out, ids...)
	return append(out, id)
}
