package storage

import "github.com/rotisserie/eris"

var (
	ErrArchetypeNotFound        = eris.New("archetype for components not found")
	ErrEntityDoesNotExist       = eris.New("entity does not exist")
	ErrComponentAlreadyOnEntity = eris.New("component already on entity")
	ErrComponentNotOnEntity     = eris.New("component not on entity")
	ErrComponentNotRegistered   = eris.New("component not registered")
	ErrComponentSchemaMismatch  = eris.New("component registered with a different schema")
	ErrComponentIDAlreadySet    = eris.New("component id already set")
	ErrComponentIsTag           = eris.New("tag components carry no data")
)
