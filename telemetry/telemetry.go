// Package telemetry is a helper package that wraps the statsd methods the
// engine emits. It hides the datadog dependency so a future migration only
// needs to edit this single file.
package telemetry

import (
	"strconv"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// Init replaces the no-op client with a real statsd client. Metrics stay
// disabled until this is called.
func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("keeneyes"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return err
	}
	client = newClient
	return nil
}

// EmitQueryStat records the duration of one query iteration pass.
func EmitQueryStat(start time.Time, path string, entities int) {
	duration := time.Since(start)
	err := Client().Timing("query", duration, []string{path, "entities:" + strconv.Itoa(entities)}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit query stat: %v", err)
	}
}

// EmitSystemStat records the duration of one system run.
func EmitSystemStat(start time.Time, system string) {
	duration := time.Since(start)
	err := Client().Timing("system", duration, []string{system}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit system stat: %v", err)
	}
}

// EmitEntityCount gauges the current number of live entities.
func EmitEntityCount(count int) {
	err := Client().Gauge("entities", float64(count), nil, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit entity count: %v", err)
	}
}
