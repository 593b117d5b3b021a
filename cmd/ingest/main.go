package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"car-support-be/internal/config"
	"car-support-be/internal/entity"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/database"
	"car-support-be/pkg/embedding"
	"car-support-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Bulk-indexes a knowledge file (.txt, one snippet per line, or .csv,
// one snippet per row) straight into the vector store, bypassing the
// HTTP queue. Meant for the initial FAQ load and re-indexing runs.
func main() {
	filePath := flag.String("file", "", "path to a .txt or .csv knowledge file")
	sourceTag := flag.String("source", "", "source tag for the batch (defaults to the file name)")
	flag.Parse()

	if *filePath == "" {
		color.Red("Usage: ingest -file <path> [-source <tag>]")
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		provider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
	}

	lines, err := readSnippets(*filePath)
	if err != nil {
		color.Red("Failed to read %s: %v", *filePath, err)
		os.Exit(1)
	}

	source := *sourceTag
	if source == "" {
		base := filepath.Base(*filePath)
		source = fmt.Sprintf("file-%s-%s", strings.TrimSuffix(base, filepath.Ext(base)), uuid.New().String()[:8])
	}

	color.Cyan("🚀 Indexing %d snippets from %s (source: %s)", len(lines), *filePath, source)

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	var rows []*entity.KnowledgeEmbedding
	chunkIndex := 0
	for i, snippet := range lines {
		for _, variant := range utils.NumeralVariants(snippet) {
			vector, err := provider.Generate(ctx, variant)
			if err != nil {
				color.Red("Embedding failed on line %d: %v", i+1, err)
				os.Exit(1)
			}
			rows = append(rows, &entity.KnowledgeEmbedding{
				Id:             uuid.New(),
				Document:       variant,
				EmbeddingValue: vector,
				SourceId:       source,
				ChunkIndex:     chunkIndex,
				CreatedAt:      time.Now(),
			})
			chunkIndex++
		}
		if (i+1)%20 == 0 {
			color.Yellow("  ... %d/%d lines embedded", i+1, len(lines))
		}
	}

	if err := uow.Begin(ctx); err != nil {
		color.Red("Failed to begin transaction: %v", err)
		os.Exit(1)
	}
	defer uow.Rollback()

	if err := uow.KnowledgeEmbeddingRepository().DeleteBySourceId(ctx, source); err != nil {
		color.Red("Failed to clear previous rows for %s: %v", source, err)
		os.Exit(1)
	}
	if err := uow.KnowledgeEmbeddingRepository().CreateBulk(ctx, rows); err != nil {
		color.Red("Failed to insert rows: %v", err)
		os.Exit(1)
	}
	if err := uow.Commit(); err != nil {
		color.Red("Failed to commit: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Done: %d rows indexed under source %s", len(rows), source)
}

func readSnippets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snippets []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader := csv.NewReader(f)
		records, err := reader.ReadAll()
		if err != nil {
			return nil, err
		}
		for _, row := range records {
			text := strings.TrimSpace(strings.Join(row, " "))
			if text != "" {
				snippets = append(snippets, text)
			}
		}
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				snippets = append(snippets, line)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported file type %q, want .txt or .csv", filepath.Ext(path))
	}
	return snippets, nil
}
