package param

// Scan extracts every embedded parameter reference from the given texts,
// in left-to-right order per text and argument order across texts.
// Duplicates are kept; use Dedup to collapse them.
func Scan(texts ...string) []Param {
	var found []Param
	for _, text := range texts {
		for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
			found = append(found, Param{Op: m[1], Name: m[2], Value: m[3]})
		}
	}
	return found
}

// Dedup collapses duplicate references, keeping first-seen order.
// Uniqueness is the full (Op, Name, Value) triple.
func Dedup(params []Param) []Param {
	seen := make(map[Param]bool, len(params))
	out := make([]Param, 0, len(params))
	for _, p := range params {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
