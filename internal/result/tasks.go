package result

import "strings"

// Tasks concatenates every group's tasks in document order. Duplicates are
// kept.
func (d *Document) Tasks() []string {
	if d == nil {
		return nil
	}
	return d.TestsToRun.Tasks()
}

func (g TestGroups) Tasks() []string {
	var tasks []string
	for _, group := range g {
		tasks = append(tasks, group.Tasks...)
	}
	return tasks
}

// Keys returns the group keys in document order.
func (g TestGroups) Keys() []string {
	keys := make([]string, 0, len(g))
	for _, group := range g {
		keys = append(keys, group.Key)
	}
	return keys
}

// Filter keeps the groups whose key matches one of types, ignoring case.
// An empty types list keeps everything.
func (g TestGroups) Filter(types []string) TestGroups {
	if len(types) == 0 {
		return g
	}
	var kept TestGroups
	for _, group := range g {
		for _, t := range types {
			if strings.EqualFold(strings.TrimSpace(t), group.Key) {
				kept = append(kept, group)
				break
			}
		}
	}
	return kept
}

// Dedupe drops repeated task identifiers, keeping the first occurrence.
func Dedupe(tasks []string) []string {
	if len(tasks) == 0 {
		return tasks
	}
	seen := make(map[string]struct{}, len(tasks))
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if _, dup := seen[task]; dup {
			continue
		}
		seen[task] = struct{}{}
		out = append(out, task)
	}
	return out
}
