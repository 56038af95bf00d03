package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (MODELDRIFT_SOURCE, ...)
const EnvPrefix = "MODELDRIFT"

// GetRetentionDays returns the retention period in days
func GetRetentionDays() int {
	return viper.GetInt("retention.days")
}

// GetPreserveTags returns tags that should be preserved indefinitely
func GetPreserveTags() []string {
	return viper.GetStringSlice("retention.preserve_tags")
}

// ShouldPreserve checks if a snapshot with given tags should be preserved
func ShouldPreserve(tags []string) bool {
	preserveTags := GetPreserveTags()
	for _, tag := range tags {
		for _, preserveTag := range preserveTags {
			if tag == preserveTag {
				return true
			}
		}
	}
	return false
}

// GetExcludePatterns returns the path substrings skipped by the walker
func GetExcludePatterns() []string {
	return viper.GetStringSlice("analyze.exclude")
}

// GetProjectVersion returns the version stamped on extracted records
func GetProjectVersion() string {
	return viper.GetString("analyze.version")
}

// GetOutputDir returns the directory export files are written to
func GetOutputDir() string {
	return viper.GetString("output.dir")
}

// GetSnapshotDir returns the directory snapshot files are stored in
func GetSnapshotDir() string {
	return viper.GetString("snapshot.dir")
}

// GetModelBaseMarker returns the base-class substring marking a model
func GetModelBaseMarker() string {
	return viper.GetString("extract.model_base_marker")
}

// GetDataclassDecorators returns decorator names marking a plain data record
func GetDataclassDecorators() []string {
	return viper.GetStringSlice("extract.dataclass_decorators")
}

// GetMatchAttributeTail reports whether router.get style decorators count as routes
func GetMatchAttributeTail() bool {
	return viper.GetBool("endpoints.match_attribute_tail")
}

// GetEmbeddingsEnabled reports whether semantic search may call Ollama
func GetEmbeddingsEnabled() bool {
	return viper.GetBool("embeddings.enabled")
}

// GetEmbeddingModel returns the Ollama embedding model
func GetEmbeddingModel() string {
	return viper.GetString("embeddings.model")
}

// GetOllamaURL returns the Ollama endpoint
func GetOllamaURL() string {
	return viper.GetString("embeddings.ollama_url")
}

// GetEmbeddingCacheDir returns where field embeddings are cached
func GetEmbeddingCacheDir() string {
	return viper.GetString("embeddings.cache_dir")
}

// GetKeywordWeight returns the keyword share of hybrid search scores
func GetKeywordWeight() float64 {
	return viper.GetFloat64("search.keyword_weight")
}

// GetSemanticWeight returns the semantic share of hybrid search scores
func GetSemanticWeight() float64 {
	return viper.GetFloat64("search.semantic_weight")
}

// GetLogLevel returns the diagnostic log level
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// GetServiceMap returns the service class -> module map used by validate
func GetServiceMap() map[string]string {
	return viper.GetStringMapString("inventory.service_map")
}

// ResolveSourceRoot picks the directory to analyse.
// Order: explicit argument, MODELDRIFT_SOURCE, source.default_path,
// ../<source.guess_name> when it exists, then the working directory.
func ResolveSourceRoot(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPrefix + "_SOURCE"); env != "" {
		return env
	}
	if p := viper.GetString("source.default_path"); p != "" {
		return p
	}
	if guess := viper.GetString("source.guess_name"); guess != "" {
		candidate := filepath.Join("..", guess)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return "."
}
