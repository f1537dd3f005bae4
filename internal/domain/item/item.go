package item

import "sort"

// Amount is a quantity of one item id.
type Amount struct {
	ItemID int64 `json:"item_id"`
	Amount int64 `json:"amount"`
}

// Balance is a user's stored quantity of one item id.
type Balance struct {
	ItemID int64 `json:"item_id"`
	Qty    int64 `json:"qty"`
}

// Merge sums amounts per item id, keeping first-seen order and dropping
// non-positive entries.
func Merge(in []Amount) []Amount {
	out := make([]Amount, 0, len(in))
	index := make(map[int64]int, len(in))
	for _, a := range in {
		if a.ItemID <= 0 || a.Amount <= 0 {
			continue
		}
		if i, ok := index[a.ItemID]; ok {
			out[i].Amount += a.Amount
			continue
		}
		index[a.ItemID] = len(out)
		out = append(out, a)
	}
	return out
}

// Group counts occurrences of each id, keeping first-seen order.
func Group(ids []int64) []Amount {
	in := make([]Amount, 0, len(ids))
	for _, id := range ids {
		in = append(in, Amount{ItemID: id, Amount: 1})
	}
	return Merge(in)
}

// UniqueIDs returns ids without duplicates in first-seen order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[int64]int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
