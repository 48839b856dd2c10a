package utils

// ReturnPanic recovers a panicked error into ptr. Panics with any other value are re-raised.
func ReturnPanic(ptr *error) {
	r := recover()
	if r == nil {
		return
	}

	if perr, ok := r.(error); ok {
		*ptr = perr
		return
	}

	panic(r)
}

func Must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}
