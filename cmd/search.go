package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/embeddings"
	"github.com/pders01/modeldrift/internal/ollama"
	"github.com/pders01/modeldrift/internal/report"
	"github.com/pders01/modeldrift/internal/search"
)

var (
	searchModel    string
	searchSemantic bool
	searchManifest string
	searchSource   string
	searchJSON     bool
	searchToon     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search model fields by name or description",
	Long: `Search model fields whose name or description contains the query.

With --semantic, fields are ranked by a hybrid score that combines keyword
relevance with semantic similarity from Ollama embeddings. Field vectors
are cached under embeddings.cache_dir. When Ollama is not reachable the
search falls back to keyword ranking.

Examples:
  modeldrift search email
  modeldrift search --model User "contact address"
  modeldrift search --semantic "who owns this"

Search modes:
  - Substring: default
  - Hybrid: keyword (30%) + semantic (70%) with --semantic`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchModel, "model", "", "Restrict the search to one model")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false, "Rank with keyword and semantic scores")
	searchCmd.Flags().StringVar(&searchManifest, "manifest", "", "Registry manifest exported by the application")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "Source tree used when no manifest is given")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	searchCmd.Flags().BoolVar(&searchToon, "toon", false, "Output in LLM-friendly toon format")
}

func runSearch(cmd *cobra.Command, args []string) error {
	w := stdout(cmd)
	ctx := context.Background()
	query := args[0]

	src, err := loadSources(ctx, searchManifest, searchSource)
	if err != nil {
		return err
	}

	s := &search.Searcher{
		Records:        src.Records,
		KeywordWeight:  config.GetKeywordWeight(),
		SemanticWeight: config.GetSemanticWeight(),
	}

	var hits []search.Hit
	if searchSemantic {
		s.Embedder = semanticEmbedder(ctx)
		if s.Embedder != nil {
			fmt.Fprintln(w, "Using hybrid search (keyword + semantic)")
		} else {
			fmt.Fprintln(w, "Using keyword search only")
		}
		hits, err = s.Rank(ctx, query, searchModel)
	} else {
		hits, err = s.Fields(ctx, query, searchModel)
	}
	if err != nil {
		return modelNotFound(err, searchModel)
	}

	if done, err := printStructured(w, searchJSON, searchToon, hits); done || err != nil {
		return err
	}
	report.Fields(w, hits)
	return nil
}

// semanticEmbedder returns a cached Ollama embedder, or nil when
// embeddings are disabled or the server is unreachable
func semanticEmbedder(ctx context.Context) embeddings.Embedder {
	log := newLogger()
	if !config.GetEmbeddingsEnabled() {
		log.Info().Msg("embeddings disabled in config")
		return nil
	}

	client, err := ollama.NewClient(config.GetOllamaURL(), config.GetEmbeddingModel())
	if err != nil {
		log.Warn().Err(err).Msg("ollama client unavailable")
		return nil
	}
	if !client.Available(ctx) {
		log.Warn().Str("url", config.GetOllamaURL()).Msg("ollama is not available")
		return nil
	}
	if err := client.CheckModel(ctx); err != nil {
		log.Warn().Err(err).Msg("embedding model unavailable")
		return nil
	}

	return embeddings.NewCache(afero.NewOsFs(), config.GetEmbeddingCacheDir(), client.Model(), client)
}
