package bridge

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

var (
	ErrUnknownCommand = eris.New("unknown bridge command")
	ErrBadArgs        = eris.New("invalid bridge command arguments")
)

// Handler executes one command. Args is the raw JSON argument object from the
// request, which may be empty.
type Handler func(args json.RawMessage) (any, error)

// Dispatcher routes namespaced commands to handlers.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds a dispatcher pre-populated with the state.* command
// set served from the given provider.
func NewDispatcher(provider Provider) *Dispatcher {
	d := &Dispatcher{handlers: map[string]Handler{}}
	registerStateCommands(d, provider)
	return d
}

// Register adds a handler under a namespaced command name, replacing any
// existing handler with the same name.
func (d *Dispatcher) Register(command string, h Handler) {
	d.handlers[command] = h
}

// Commands returns the registered command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the request and always produces a response; handler
// errors are reported in the response rather than returned.
func (d *Dispatcher) Dispatch(req Request) Response {
	h, ok := d.handlers[req.Command]
	if !ok {
		return Response{ID: req.ID, Error: eris.Wrapf(ErrUnknownCommand, "%q", req.Command).Error()}
	}
	result, err := h(req.Args)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return Response{ID: req.ID, Error: eris.Wrap(err, "failed to encode result").Error()}
	}
	return Response{ID: req.ID, Success: true, Data: data}
}

type nameArgs struct {
	Name string `json:"name"`
}

type tagArgs struct {
	Tag string `json:"tag"`
}

type queryArgs struct {
	Query string `json:"query"`
}

func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 {
		return args, eris.Wrap(ErrBadArgs, "missing arguments")
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, eris.Wrap(ErrBadArgs, err.Error())
	}
	return args, nil
}

func registerStateCommands(d *Dispatcher, p Provider) {
	d.Register("state.getEntityCount", func(json.RawMessage) (any, error) {
		return p.EntityCount(), nil
	})
	d.Register("state.getWorldStats", func(json.RawMessage) (any, error) {
		return p.WorldStats(), nil
	})
	d.Register("state.getEntityByName", func(raw json.RawMessage) (any, error) {
		args, err := decodeArgs[nameArgs](raw)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(args.Name) == "" {
			return nil, eris.Wrap(ErrBadArgs, "name must not be empty")
		}
		e, found := p.EntityByName(args.Name)
		return struct {
			Entity types.Entity `json:"entity"`
			Found  bool         `json:"found"`
		}{Entity: e, Found: found}, nil
	})
	d.Register("state.getEntitiesWithTag", func(raw json.RawMessage) (any, error) {
		args, err := decodeArgs[tagArgs](raw)
		if err != nil {
			return nil, err
		}
		ents := p.EntitiesWithTag(args.Tag)
		if ents == nil {
			ents = []types.Entity{}
		}
		return ents, nil
	})
	d.Register("state.queryEntities", func(raw json.RawMessage) (any, error) {
		args, err := decodeArgs[queryArgs](raw)
		if err != nil {
			return nil, err
		}
		ents, err := p.QueryEntities(args.Query)
		if err != nil {
			return nil, err
		}
		if ents == nil {
			ents = []types.Entity{}
		}
		return ents, nil
	})
	d.Register("state.debugState", func(json.RawMessage) (any, error) {
		state, err := p.DebugState()
		if err != nil {
			return nil, err
		}
		if state == nil {
			state = []types.EntityStateElement{}
		}
		return state, nil
	})
}
