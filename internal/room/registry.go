package room

import (
	"sync"

	"github.com/svincent/tandem.io/internal/auth"
)

// Registry is the process-wide collection of live rooms. There is no module
// level instance: the process entry point constructs one and injects it. No
// deletion path exists; rooms live until the process exits.
type Registry struct {
	verifier *auth.Verifier
	cfg      Config

	mu    sync.RWMutex
	rooms map[string]*Room
	order []string
}

func NewRegistry(verifier *auth.Verifier, cfg Config) *Registry {
	return &Registry{
		verifier: verifier,
		cfg:      cfg.withDefaults(),
		rooms:    make(map[string]*Room),
	}
}

type CreateRoomParams struct {
	Name string `json:"name" validate:"max=100"`
}

func (g *Registry) Create(params *CreateRoomParams) *Room {
	r := newRoom(params.Name, g.verifier, g.cfg)

	g.mu.Lock()
	g.rooms[r.ID] = r
	g.order = append(g.order, r.ID)
	g.mu.Unlock()

	return r
}

func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[id]

	return r, ok
}

// List returns room summaries in creation order.
func (g *Registry) List() []Summary {
	g.mu.RLock()
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	g.mu.RUnlock()

	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if r, ok := g.Get(id); ok {
			summaries = append(summaries, r.Summary())
		}
	}

	return summaries
}
