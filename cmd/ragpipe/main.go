// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/ragpipe/ai"
	"github.com/poiesic/ragpipe/rag"
	"github.com/poiesic/ragpipe/session"
	"github.com/poiesic/ragpipe/vectorstore"
	"github.com/poiesic/ragpipe/vectorstore/badger"
	"github.com/poiesic/ragpipe/vectorstore/memory"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragpipe",
		Usage: "Retrieval-augmented question answering over your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Ask a question grounded in ingested documents",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(providerFlags(),
					&cli.StringFlag{
						Name:    "session",
						Aliases: []string{"s"},
						Usage:   "Session identifier (random when omitted)",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to a BadgerDB vector store directory (in-memory when omitted)",
					},
					&cli.StringSliceFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Document file to ingest before answering (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "Web page to ingest before answering (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-ingest sources even when the store is already populated",
					},
					&cli.BoolFlag{
						Name:  "no-stream",
						Usage: "Wait for the complete answer instead of streaming fragments",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Leave conversation history out of the prompt",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve",
						Value:   rag.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "history-file",
						Usage: "Load conversation history from this file and save it back after answering",
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest documents into a persistent vector store",
				ArgsUsage: "<source>...",
				Action:    ingestCommand,
				Flags: append(providerFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to a BadgerDB vector store directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-ingest even when the store is already populated",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Model provider (openai, zhipu, xai)",
			Value:   "openai",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Provider API key",
			EnvVars: []string{"RAGPIPE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Override the provider's base endpoint",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Completion model name (provider default when omitted)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (provider default when omitted)",
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Sampling temperature",
			Value: 0.7,
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Cap on generated tokens (0 means provider default)",
		},
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}
	ctx := context.Background()

	engine, cleanup, err := buildEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := c.String("history-file")
	if historyFile != "" {
		if _, err := os.Stat(historyFile); err == nil {
			if err := engine.Conversation().Load(historyFile); err != nil {
				return err
			}
		}
	}

	sources := append(c.StringSlice("file"), c.StringSlice("url")...)
	if len(sources) > 0 {
		if err := engine.Ingest(ctx, sources, c.Bool("force")); err != nil {
			return err
		}
	}

	opts := []rag.GenerateOption{rag.WithK(c.Int("top-k"))}
	if !c.Bool("no-stream") {
		opts = append(opts, rag.Streaming())
	}
	if c.Bool("no-history") {
		opts = append(opts, rag.WithoutHistory())
	}

	for fragment, err := range engine.Generate(ctx, question, opts...) {
		if err != nil {
			return err
		}
		fmt.Print(fragment)
	}
	fmt.Println()

	if historyFile != "" {
		return engine.Conversation().Save(historyFile)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	sources := c.Args().Slice()
	if len(sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	engine, cleanup, err := buildEngine(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if err := engine.Ingest(ctx, sources, c.Bool("force")); err != nil {
		return err
	}

	count, err := engine.DocumentCount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Store holds %d chunks\n", count)
	return nil
}

// buildEngine creates a single-session engine from the command-line
// flags. The returned cleanup releases any persistent store.
func buildEngine(c *cli.Context) (*rag.Engine, func(), error) {
	provider, modelConfig, embeddingConfig := modelConfigs(c)

	var persistent *badger.Store
	factory := func(sessionID string, embedder ai.Embedder) (vectorstore.Store, error) {
		if dbPath := c.String("db"); dbPath != "" {
			store, err := badger.Open(dbPath, embedder)
			if err != nil {
				return nil, err
			}
			persistent = store
			return store, nil
		}
		return memory.NewStore(embedder)
	}

	sessionID := c.String("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	manager := session.NewManager(session.WithStoreFactory(factory))
	engine, err := manager.Create(sessionID, provider, modelConfig, embeddingConfig)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if persistent != nil {
			if err := persistent.Close(); err != nil {
				slog.Error("error closing vector store", "err", err)
			}
		}
	}
	return engine, cleanup, nil
}

func modelConfigs(c *cli.Context) (ai.Provider, *ai.ModelConfig, *ai.ModelConfig) {
	provider := ai.Provider(strings.ToLower(c.String("provider")))

	model := c.String("model")
	embeddingModel := c.String("embedding-model")
	// Variant constructors fill in zhipu and xai defaults; OpenAI needs
	// explicit model names.
	if provider == ai.ProviderOpenAI {
		if model == "" {
			model = "gpt-4o-mini"
		}
		if embeddingModel == "" {
			embeddingModel = "text-embedding-3-small"
		}
	}

	shared := []ai.ConfigOption{
		ai.WithAPIKey(c.String("api-key")),
		ai.WithBaseURL(c.String("base-url")),
	}

	modelConfig := ai.NewConfig(append(shared,
		ai.WithModel(model),
		ai.WithTemperature(c.Float64("temperature")),
		ai.WithMaxTokens(c.Int("max-tokens")),
	)...)
	embeddingConfig := ai.NewConfig(append(shared,
		ai.WithModel(embeddingModel),
	)...)

	return provider, modelConfig, embeddingConfig
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
