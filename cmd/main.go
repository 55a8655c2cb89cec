package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-qa/internal/config"
	"document-qa/internal/embedding"
	"document-qa/internal/helper"
	"document-qa/internal/server"
	"document-qa/internal/session"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// .env may carry PPLX_API_KEY; missing file is fine
	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file")
	serve := flag.Bool("serve", false, "Run the HTTP API server")
	var questions []string
	flag.Func("question", "Question to answer (repeatable)", func(q string) error {
		questions = append(questions, q)
		return nil
	})
	flag.Parse()

	cfg := loadConfig(*configPath)

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	pipeline := session.NewPipeline(cfg, embedder)

	if *serve {
		srv := server.New(cfg, pipeline)
		if err := srv.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}

	if *filePath == "" || len(questions) == 0 {
		log.Fatal().Msg("Provide a document with -file and at least one -question, or run with -serve")
	}

	answerQuestions(context.Background(), pipeline, *filePath, questions)
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("No config file, using defaults")
			return config.Default()
		}
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")
	return cfg
}

func answerQuestions(ctx context.Context, pipeline *session.Pipeline, filePath string, questions []string) {
	details, err := pipeline.ProcessDetailed(ctx, filePath, questions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error processing document")
	}

	for i, detail := range details {
		log.Info().Msgf("Question %d: %s", i+1, questions[i])

		log.Info().Msg("Parsed query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
		helper.PrettyPrint(detail.Parsed)

		log.Info().Msgf("Retrieved %d chunks: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>", len(detail.Results))
		for j, result := range detail.Results {
			if j >= 5 {
				break
			}
			fmt.Printf("  %d. (Page %d, Score: %.3f) %.200s\n", j+1, result.Page, result.Score, result.Text)
		}

		log.Info().Msg("Answer: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
		fmt.Printf("%s\n\n", detail.Answer)
	}
}
