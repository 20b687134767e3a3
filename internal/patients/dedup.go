package patients

import "strings"

// dedupKey groups clients for duplicate detection: the digits-only
// phone when present, else the lowercased name.
func dedupKey(c Client) string {
	if phone := NormalizePhone(c.Phone); phone != "" {
		return phone
	}
	return strings.ToLower(c.Name)
}

// DuplicateGroups returns every group of clients sharing a dedup key,
// keeping only groups with more than one member. Group order follows
// first appearance in the collection.
func DuplicateGroups(clients []Client) [][]Client {
	byKey := make(map[string][]Client)
	var order []string
	for _, c := range clients {
		key := dedupKey(c)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], c)
	}

	var groups [][]Client
	for _, key := range order {
		if group := byKey[key]; len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}

// RemoveDuplicates collapses each duplicate group down to the member
// with the latest CreatedAt (a missing CreatedAt counts as earliest)
// and reports how many records were dropped. Collection order is
// preserved for the survivors.
func RemoveDuplicates(clients []Client) ([]Client, int) {
	byKey := make(map[string][]Client)
	for _, c := range clients {
		key := dedupKey(c)
		byKey[key] = append(byKey[key], c)
	}

	kept := make([]Client, 0, len(clients))
	removed := 0
	for _, c := range clients {
		group := byKey[dedupKey(c)]
		if len(group) == 1 {
			kept = append(kept, c)
			continue
		}
		mostRecent := group[0]
		for _, dup := range group[1:] {
			if dup.CreatedAt.After(mostRecent.CreatedAt) {
				mostRecent = dup
			}
		}
		if c.ID == mostRecent.ID {
			kept = append(kept, c)
		} else {
			removed++
		}
	}
	return kept, removed
}
