package cache

import "strings"

// NormalizeAddress produces the cache key for an address: lowercase with
// collapsed whitespace, so "12  Oak St" and "12 oak st" share an entry.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// normalizeKeys maps normalized keys back to the caller's original spellings,
// dropping empty addresses.
func normalizeKeys(addresses []string) (keys []string, originals map[string][]string) {
	originals = make(map[string][]string, len(addresses))
	keys = make([]string, 0, len(addresses))

	for _, a := range addresses {
		k := NormalizeAddress(a)
		if k == "" {
			continue
		}

		if _, ok := originals[k]; !ok {
			keys = append(keys, k)
		}
		originals[k] = append(originals[k], a)
	}

	return keys, originals
}
