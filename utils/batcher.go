package utils

// Batcher buffers values and hands them to a flush function in groups of at most limit.
type Batcher[T any] interface {
	Add(T) error
	AddAll(...T) error
	Flush() error
	// Flushed returns how many values have been handed to the flush function successfully.
	Flushed() int
}

type batcher[T any] struct {
	limit   int
	buf     []T
	flushed int
	flushFn func([]T) error
}

func NewBatcher[T any](limit int, flushFn func([]T) error) Batcher[T] {
	return &batcher[T]{
		limit:   limit,
		flushFn: flushFn,
		buf:     make([]T, 0, limit),
	}
}

func (bat *batcher[T]) Add(t T) error {
	bat.buf = append(bat.buf, t)
	if len(bat.buf) >= bat.limit {
		return bat.Flush()
	}

	return nil
}

func (bat *batcher[T]) AddAll(ts ...T) error {
	for _, t := range ts {
		if err := bat.Add(t); err != nil {
			return err
		}
	}

	return nil
}

func (bat *batcher[T]) Flush() error {
	if len(bat.buf) == 0 {
		return nil
	}

	if err := bat.flushFn(bat.buf); err != nil {
		return err
	}

	bat.flushed += len(bat.buf)
	bat.buf = bat.buf[:0]
	return nil
}

func (bat *batcher[T]) Flushed() int {
	return bat.flushed
}
