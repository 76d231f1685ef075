package votingservice

import (
	"log/slog"

	httpadapter "pollhub/contexts/polling/voting-service/adapters/http"
	"pollhub/contexts/polling/voting-service/adapters/memory"
	"pollhub/contexts/polling/voting-service/application/commands"
	"pollhub/contexts/polling/voting-service/application/queries"
	"pollhub/contexts/polling/voting-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Admin   commands.QuestionUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Store      ports.EntityStore
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	IndexLimit int
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Questions: deps.Store,
		Choices:   deps.Store,
		Votes:     deps.Store,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes: voteUseCase,
			Index: queries.IndexUseCase{
				Questions: deps.Store,
				Limit:     deps.IndexLimit,
			},
			Detail: queries.DetailUseCase{
				Questions: deps.Store,
				Choices:   deps.Store,
				Votes:     deps.Store,
			},
			Results: queries.ResultsUseCase{
				Questions: deps.Store,
				Choices:   deps.Store,
				Votes:     deps.Store,
			},
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		Admin: commands.QuestionUseCase{
			Questions: deps.Store,
			Choices:   deps.Store,
			Clock:     deps.Clock,
			IDGen:     deps.IDGen,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Store:      store,
		Clock:      store,
		IDGen:      store,
		IndexLimit: ports.DefaultIndexLimit,
		Logger:     logger,
	})
	module.Store = store
	return module
}
