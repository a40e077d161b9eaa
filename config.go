package keeneyes

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

const DefaultParallelThreshold = 1000

// WorldConfig carries the tunables a world reads at construction. Every field
// can be overridden from the environment (KEENEYES_ prefix).
type WorldConfig struct {
	// SaveDirectory is where the file slot store writes `<slot>.ksave` files.
	SaveDirectory string `config:"KEENEYES_SAVE_DIRECTORY"`
	// EditorVersion is the host version plugins validate their
	// Min/MaxEditorVersion range against.
	EditorVersion string `config:"KEENEYES_EDITOR_VERSION"`
	// ParallelThreshold is the default entity count at which parallel query
	// iteration kicks in.
	ParallelThreshold int `config:"KEENEYES_PARALLEL_THRESHOLD"`
	// StrictHierarchy makes SetParent return an error on cycle creation
	// instead of silently refusing the edge.
	StrictHierarchy bool `config:"KEENEYES_STRICT_HIERARCHY"`
	// BridgePort is the port the test-automation bridge server listens on.
	BridgePort string `config:"KEENEYES_BRIDGE_PORT"`
	// StatsdAddress enables metric emission when non-empty.
	StatsdAddress string `config:"KEENEYES_STATSD_ADDRESS"`
	// LogLevel is the zerolog level for the world logger.
	LogLevel string `config:"KEENEYES_LOG_LEVEL"`
}

func defaultWorldConfig() WorldConfig {
	return WorldConfig{
		SaveDirectory:     "saves",
		EditorVersion:     "1.0.0",
		ParallelThreshold: DefaultParallelThreshold,
		StrictHierarchy:   true,
		BridgePort:        "4040",
		StatsdAddress:     "",
		LogLevel:          "info",
	}
}

func loadWorldConfig() (WorldConfig, error) {
	cfg := defaultWorldConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load world config from environment")
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = DefaultParallelThreshold
	}
	return cfg, nil
}
