package keeneyes

import "github.com/rotisserie/eris"

var (
	ErrEntityNotFound      = eris.New("entity not found")
	ErrInvalidTag          = eris.New("tag must not be empty or whitespace")
	ErrInvalidName         = eris.New("entity name must not be empty or whitespace")
	ErrNameTaken           = eris.New("entity name already in use")
	ErrHierarchyCycle      = eris.New("reparenting would create a hierarchy cycle")
	ErrSingletonNotFound   = eris.New("singleton not set")
	ErrExtensionNotFound   = eris.New("extension not set")
	ErrPluginInstalled     = eris.New("plugin already installed")
	ErrPluginNotInstalled  = eris.New("plugin not installed")
	ErrSystemRegistered    = eris.New("system already registered")
	ErrComponentIsTag      = eris.New("tag components carry no data")
	ErrWorldStateMigration = eris.New("failed to migrate entity between archetypes")
)
