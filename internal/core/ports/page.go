package ports

// Page is one window of a listing together with the number of rows the
// unpaginated query matched.
type Page[T any] struct {
	Items []T
	Total int
}
