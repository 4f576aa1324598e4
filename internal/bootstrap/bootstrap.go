package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/core/planner"
	"github.com/planforge/planforge/internal/core/ports"
	"github.com/planforge/planforge/internal/core/usecase"
	"github.com/planforge/planforge/internal/infrastructure/chunking"
	neo4jgraph "github.com/planforge/planforge/internal/infrastructure/graph/neo4j"
	"github.com/planforge/planforge/internal/infrastructure/llm/ollama"
	"github.com/planforge/planforge/internal/infrastructure/loader"
	"github.com/planforge/planforge/internal/infrastructure/normalize"
	"github.com/planforge/planforge/internal/infrastructure/queue/nats"
	"github.com/planforge/planforge/internal/infrastructure/repository/postgres"
	"github.com/planforge/planforge/internal/infrastructure/resilience"
	"github.com/planforge/planforge/internal/infrastructure/semantic"
	"github.com/planforge/planforge/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Docs      ports.DocumentRepository
	Plans     ports.PlanRepository
	IngestUC  ports.DocumentIngestor
	BuildUC   ports.PlanBuilder
	PreviewUC ports.PlanPreviewer
	PlanUC    *usecase.PlanQueryUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	plans := postgres.NewPlanRepository(db)
	if err := plans.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure plans schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	lex, err := semantic.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	extractor, err := buildExtractor(cfg, lex, executor)
	if err != nil {
		return nil, err
	}

	synth := planner.New(planner.Templates{
		PhaseNames:   lex.PhaseNames,
		DefaultDays:  lex.PhaseDefaultDays,
		DefaultTasks: lex.DefaultTasks,
	})

	var graph ports.GraphProjector
	var graphClose func()
	if cfg.GraphSyncEnabled {
		projector, err := neo4jgraph.New(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, executor)
		if err != nil {
			return nil, fmt.Errorf("init graph projector: %w", err)
		}
		graph = projector
		graphClose = func() {
			if err := projector.Close(context.Background()); err != nil {
				slog.Warn("close_graph_projector", slog.String("error", err.Error()))
			}
		}
	}

	docLoader := loader.New(storage)
	normalizer := normalize.New()

	ingestUC := usecase.NewIngestDocumentUseCase(docs, storage, queue)
	buildUC := usecase.NewBuildPlanUseCase(docs, plans, docLoader, normalizer, extractor, synth, graph)
	previewUC := usecase.NewPreviewPlanUseCase(storage, docLoader, normalizer, extractor, synth)
	planUC := usecase.NewPlanQueryUseCase(docs, plans)

	return &App{
		Config: cfg,
		Queue:  queue,
		Docs:   docs,
		Plans:  plans,

		IngestUC:  ingestUC,
		BuildUC:   buildUC,
		PreviewUC: previewUC,
		PlanUC:    planUC,

		closeFn: func() {
			queue.Close()
			if graphClose != nil {
				graphClose()
			}
			_ = db.Close()
		},
	}, nil
}

// buildExtractor selects the semantic stage. The rule extractor is the
// default; model mode delegates to Ollama; hybrid runs the model first and
// falls back to rules when the model fails or finds nothing.
func buildExtractor(cfg config.Config, lex semantic.Lexicon, executor *resilience.Executor) (ports.EntityExtractor, error) {
	rule := semantic.NewRuleExtractor(lex)

	switch cfg.ExtractorMode {
	case "", "rule":
		return rule, nil
	case "model", "hybrid":
		client := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
		splitter := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
		model := ollama.NewExtractor(client, splitter)
		if cfg.ExtractorMode == "model" {
			return model, nil
		}
		return semantic.NewFallback(model, rule), nil
	default:
		return nil, fmt.Errorf("unknown extractor mode %q", cfg.ExtractorMode)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
