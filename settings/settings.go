// Package settings holds editor-facing preferences as an explicit context
// object with a load/save lifecycle, passed to the call sites that need it
// instead of living in process-wide state. Subscribers are notified whenever
// a value changes.
package settings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// EditorSettings are the persisted editor preferences.
type EditorSettings struct {
	AutoSaveIntervalSeconds int    `json:"autoSaveIntervalSeconds"`
	DefaultSaveSlot         string `json:"defaultSaveSlot"`
	ShowEntityIDs           bool   `json:"showEntityIds"`
	LogLevel                string `json:"logLevel"`
	BridgeEnabled           bool   `json:"bridgeEnabled"`
}

// Defaults returns the settings used before anything has been saved.
func Defaults() EditorSettings {
	return EditorSettings{
		AutoSaveIntervalSeconds: 300,
		DefaultSaveSlot:         "autosave",
		ShowEntityIDs:           false,
		LogLevel:                "info",
		BridgeEnabled:           true,
	}
}

// ChangeListener is invoked with the new settings after every change.
type ChangeListener func(EditorSettings)

// Context owns a settings file and the current in-memory values.
type Context struct {
	mu        sync.RWMutex
	path      string
	current   EditorSettings
	listeners []ChangeListener
}

// NewContext creates a settings context backed by the given file. Nothing is
// read until Load is called; the context starts at defaults.
func NewContext(path string) *Context {
	return &Context{path: path, current: Defaults()}
}

// Current returns a copy of the active settings.
func (c *Context) Current() EditorSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// OnChange registers a listener called after every successful Update, Load,
// and ResetToDefaults.
func (c *Context) OnChange(fn ChangeListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Update applies fn to a copy of the current settings and commits the result,
// notifying listeners.
func (c *Context) Update(fn func(*EditorSettings)) {
	c.mu.Lock()
	next := c.current
	fn(&next)
	c.current = next
	listeners := append([]ChangeListener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Load reads settings from the backing file. A missing file leaves defaults
// in place and is not an error.
func (c *Context) Load() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "failed to read settings file %q", c.path)
	}
	loaded := Defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return eris.Wrapf(err, "failed to parse settings file %q", c.path)
	}
	c.commit(loaded)
	return nil
}

// Save writes the current settings to the backing file, creating parent
// directories as needed.
func (c *Context) Save() error {
	current := c.Current()
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to encode settings")
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "failed to create settings directory %q", dir)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write settings file %q", c.path)
	}
	return nil
}

// ResetToDefaults restores the default settings in memory and notifies
// listeners. The backing file is untouched until Save.
func (c *Context) ResetToDefaults() {
	c.commit(Defaults())
}

func (c *Context) commit(next EditorSettings) {
	c.mu.Lock()
	c.current = next
	listeners := append([]ChangeListener(nil), c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		l(next)
	}
}
