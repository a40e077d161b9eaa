package storage

import "github.com/rotisserie/eris"

// column is one contiguous slice of component values inside an archetype.
// Rows are kept dense; removal is swap-remove so row indices are only stable
// until the next structural change.
type column interface {
	len() int
	appendZero()
	appendValue(v any) error
	swapRemove(row int)
	copyRowTo(dst column, row int) error
	valueAt(row int) any
	setValue(row int, v any) error
}

// columnFactory is implemented by component metadata so archetypes can build
// a correctly-typed column without reflection.
type columnFactory interface {
	newColumn() column
}

type typedColumn[T any] struct {
	data []T
}

func (c *typedColumn[T]) len() int { return len(c.data) }

func (c *typedColumn[T]) appendZero() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *typedColumn[T]) appendValue(v any) error {
	switch val := v.(type) {
	case T:
		c.data = append(c.data, val)
	case *T:
		c.data = append(c.data, *val)
	default:
		return eris.Errorf("wrong component type %T for column", v)
	}
	return nil
}

func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

func (c *typedColumn[T]) copyRowTo(dst column, row int) error {
	typed, ok := dst.(*typedColumn[T])
	if !ok {
		return eris.New("destination column has a different component type")
	}
	typed.data = append(typed.data, c.data[row])
	return nil
}

func (c *typedColumn[T]) valueAt(row int) any {
	return c.data[row]
}

func (c *typedColumn[T]) setValue(row int, v any) error {
	switch val := v.(type) {
	case T:
		c.data[row] = val
	case *T:
		c.data[row] = *val
	default:
		return eris.Errorf("wrong component type %T for column", v)
	}
	return nil
}

// ref returns a pointer to the value at row. The pointer is invalidated by
// any structural change to the column.
func (c *typedColumn[T]) ref(row int) *T {
	return &c.data[row]
}
