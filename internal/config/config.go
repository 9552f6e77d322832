package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	LogLevel    string

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string

	OpenRouterAPIKey string
	OpenRouterModel  string

	MemberAPIURL string

	RetrievalK int
	PromptDocs int
}

func Load() Config {
	return Config{
		Port:        envInt("ORACLE_PORT", 8760),
		NatsURL:     envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		EmbeddingBaseURL: envStr("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingAPIKey:  envStr("EMBEDDING_API_KEY", ""),
		EmbeddingModel:   envStr("EMBEDDING_MODEL", "text-embedding-3-small"),

		OpenRouterAPIKey: envStr("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  envStr("ORACLE_MODEL", "openai/gpt-oss-20b"),

		MemberAPIURL: envStr("MEMBER_API_URL", ""),

		RetrievalK: envInt("ORACLE_RETRIEVAL_K", 50),
		PromptDocs: envInt("ORACLE_PROMPT_DOCS", 5),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
