package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/svincent/tandem.io/internal/auth"
	"github.com/svincent/tandem.io/internal/catalog"
	"github.com/svincent/tandem.io/internal/room"
	"github.com/svincent/tandem.io/pkg/validator"
)

type iRegistry interface {
	Create(*room.CreateRoomParams) *room.Room
	Get(string) (*room.Room, bool)
	List() []room.Summary
}

type iCatalog interface {
	Resolve(ctx context.Context, rawURL string) (catalog.Track, error)
	Search(ctx context.Context, query, source string) ([]catalog.SearchResult, error)
	Like(ctx context.Context, source, itemID, accessToken string) error
}

type controller struct {
	registry iRegistry
	catalog  iCatalog
	verifier *auth.Verifier
	upgrader websocket.Upgrader
	validate *validator.Validator
	logger   *slog.Logger
}

func NewController(registry iRegistry, catalogService iCatalog, verifier *auth.Verifier, logger *slog.Logger) *controller {
	return &controller{
		registry: registry,
		catalog:  catalogService,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
