// Package store holds the entity stores: each one owns an in-memory list of
// one entity type kept in sync with the remote backend. Mutations follow a
// single rule: the remote round trip runs first, and only a success patches
// the cached list with the canonical row the backend returned (prepend on
// create, replace by id on update, filter by id on delete). A refetch
// replaces the list wholesale. On any remote failure the list is left exactly
// as it was and the notifier carries the error to the user.
//
// Overlapping calls are not serialized; completion order decides list order.
package store

// prependItem puts the canonical row of a successful create at the front.
func prependItem[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

// replaceWhere swaps the first item matching pred for the canonical row.
func replaceWhere[T any](list []T, pred func(T) bool, item T) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i := range out {
		if pred(out[i]) {
			out[i] = item
			break
		}
	}
	return out
}

// removeWhere filters out every item matching pred.
func removeWhere[T any](list []T, pred func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if !pred(item) {
			out = append(out, item)
		}
	}
	return out
}
