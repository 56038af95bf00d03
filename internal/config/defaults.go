package config

import "github.com/spf13/viper"

// DefaultExcludes are skipped when no exclusion list is configured
var DefaultExcludes = []string{"venv", ".venv", "__pycache__", "node_modules", ".git", "analysis_output"}

// SetDefaults registers every configuration default
func SetDefaults() {
	viper.SetDefault("retention.days", 90)
	viper.SetDefault("retention.preserve_tags", []string{"important", "release"})
	viper.SetDefault("analyze.exclude", DefaultExcludes)
	viper.SetDefault("analyze.version", "1.0.0")
	viper.SetDefault("output.dir", "version_analysis")
	viper.SetDefault("snapshot.dir", ".modeldrift/snapshots")
	viper.SetDefault("extract.model_base_marker", "BaseModel")
	viper.SetDefault("extract.dataclass_decorators", []string{"dataclass"})
	viper.SetDefault("endpoints.match_attribute_tail", false)
	viper.SetDefault("embeddings.enabled", false)
	viper.SetDefault("embeddings.model", "nomic-embed-text")
	viper.SetDefault("embeddings.ollama_url", "http://localhost:11434")
	viper.SetDefault("embeddings.cache_dir", ".modeldrift/embeddings")
	viper.SetDefault("search.keyword_weight", 0.3)
	viper.SetDefault("search.semantic_weight", 0.7)
	viper.SetDefault("source.guess_name", "")
	viper.SetDefault("log.level", "warn")
}

// DefaultConfigTOML is written by the init command
const DefaultConfigTOML = `[analyze]
version = "1.0.0"
exclude = ["venv", ".venv", "__pycache__", "node_modules", ".git", "analysis_output"]

[extract]
model_base_marker = "BaseModel"
dataclass_decorators = ["dataclass"]

[endpoints]
match_attribute_tail = false

[snapshot]
dir = ".modeldrift/snapshots"

[retention]
days = 90
preserve_tags = ["important", "release"]

[embeddings]
enabled = false
model = "nomic-embed-text"
ollama_url = "http://localhost:11434"

[log]
level = "warn"
`
