package utils

// PP returns a pointer to a copy of t. It is mostly useful for filling optional fields.
func PP[T any](t T) *T {
	return &t
}
