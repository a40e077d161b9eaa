package keeneyes

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// SetSingleton stores one world-global instance of component type T,
// independent of any entity. A later call replaces the stored value.
func SetSingleton[T types.Component](w *World, value T) {
	stored := value
	w.singletons[value.Name()] = &stored
}

// GetSingleton returns a pointer to the stored singleton of type T.
func GetSingleton[T types.Component](w *World) (*T, error) {
	var zero T
	v, ok := w.singletons[zero.Name()]
	if !ok {
		return nil, eris.Wrapf(ErrSingletonNotFound, "singleton %q", zero.Name())
	}
	ptr, ok := v.(*T)
	if !ok {
		return nil, eris.Errorf("singleton %q stored with a different type", zero.Name())
	}
	return ptr, nil
}

// HasSingleton reports whether a singleton of type T is set.
func HasSingleton[T types.Component](w *World) bool {
	var zero T
	_, ok := w.singletons[zero.Name()]
	return ok
}

// RemoveSingleton deletes the stored singleton of type T, reporting whether
// one was set.
func RemoveSingleton[T types.Component](w *World) bool {
	var zero T
	_, ok := w.singletons[zero.Name()]
	delete(w.singletons, zero.Name())
	return ok
}
