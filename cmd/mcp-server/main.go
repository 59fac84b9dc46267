package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"

	"github.com/soundprediction/patternbase"
	pblogger "github.com/soundprediction/patternbase/pkg/logger"
	"github.com/soundprediction/patternbase/pkg/seed"
	"github.com/soundprediction/patternbase/pkg/snapshot"
)

// Default configuration values
const (
	DefaultTransport = "stdio"
	DefaultHost      = "localhost"
	DefaultPort      = 3000
	DefaultCacheSize = 100
	DefaultCacheTTL  = 5 * time.Minute
)

// Config holds all configuration for the MCP server
type Config struct {
	// MCP Server Configuration
	Transport string
	Host      string
	Port      int

	// Store Configuration
	SeedPaths    []string
	SnapshotPath string
	ClearOnStart bool

	// Cache Configuration
	CacheSize int
	CacheTTL  time.Duration
}

// MCPServer wraps the patternbase client for MCP tool access
type MCPServer struct {
	config *Config
	client *patternbase.Client
	logger *slog.Logger
}

// NewConfig creates a new configuration from environment variables
func NewConfig() *Config {
	return &Config{
		Transport:    getEnv("MCP_TRANSPORT", DefaultTransport),
		Host:         getEnv("MCP_HOST", DefaultHost),
		Port:         getEnvInt("MCP_PORT", DefaultPort),
		SeedPaths:    splitPaths(getEnv("SEED_FILES", "")),
		SnapshotPath: getEnv("SNAPSHOT_PATH", ""),
		ClearOnStart: getEnvBool("CLEAR_ON_START", false),
		CacheSize:    getEnvInt("CACHE_MAX_SIZE", DefaultCacheSize),
		CacheTTL:     getEnvDuration("CACHE_TTL", DefaultCacheTTL),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(config *Config) (*MCPServer, error) {
	logger := pblogger.NewDefaultLogger(slog.LevelInfo)

	client := patternbase.NewClient(&patternbase.Options{
		CacheSize: config.CacheSize,
		CacheTTL:  config.CacheTTL,
		Logger:    logger,
	})

	return &MCPServer{
		config: config,
		client: client,
		logger: logger,
	}, nil
}

// Initialize populates the store from the snapshot and seed files.
func (s *MCPServer) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing Patternbase MCP server...")

	if s.config.ClearOnStart {
		s.logger.Warn("Store clearing requested - dropping all records")
		s.client.ClearAll()
	}

	if s.config.SnapshotPath != "" {
		snap, err := snapshot.Open(s.config.SnapshotPath, s.logger)
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer snap.Close()

		restored, err := snap.Load(s.client.Store())
		if err != nil {
			return fmt.Errorf("failed to restore snapshot: %w", err)
		}
		s.logger.Info("Snapshot restored", "records", restored)
	}

	if len(s.config.SeedPaths) > 0 {
		added, err := seed.Populate(s.client.Store(), s.config.SeedPaths, s.logger)
		if err != nil {
			return fmt.Errorf("failed to load seed files: %w", err)
		}
		s.logger.Info("Seed records loaded", "count", added)
	}

	stats := s.client.StoreStats()
	s.logger.Info("MCP server configuration",
		"transport", s.config.Transport,
		"patterns", stats.Patterns,
		"examples", stats.Examples,
		"security_rules", stats.SecurityRules,
		"dialects", stats.Dialects,
		"learning_paths", stats.LearningPaths,
	)

	return nil
}

// RegisterTools registers all MCP tools with Genkit
func (s *MCPServer) RegisterTools(g *genkit.Genkit) {
	// Register search_knowledge tool
	genkit.DefineTool(g, "search_knowledge",
		"Search the knowledge base for scripting patterns and code examples matching a query.",
		s.SearchKnowledgeTool)

	// Register get_pattern tool
	genkit.DefineTool(g, "get_pattern",
		"Get a scripting pattern from the knowledge base by its ID.",
		s.GetPatternTool)

	// Register get_example tool
	genkit.DefineTool(g, "get_example",
		"Get a code example from the knowledge base by its ID.",
		s.GetExampleTool)

	// Register get_record tool
	genkit.DefineTool(g, "get_record",
		"Get any knowledge record by its variant and ID.",
		s.GetRecordTool)

	// Register browse_records tool
	genkit.DefineTool(g, "browse_records",
		"List knowledge records by category, server type, or difficulty level.",
		s.BrowseRecordsTool)

	// Register store_stats tool
	genkit.DefineTool(g, "store_stats",
		"Get record counts per variant in the knowledge store.",
		s.StoreStatsTool)

	// Register cache_stats tool
	genkit.DefineTool(g, "cache_stats",
		"Get query cache accounting: size, hits, misses, evictions, hit rate.",
		s.CacheStatsTool)

	// Register clear_knowledge tool
	genkit.DefineTool(g, "clear_knowledge",
		"Clear all records from the knowledge store and drop cached results.",
		s.ClearKnowledgeTool)
}

// Run starts the MCP server
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("Starting Genkit MCP server", "transport", s.config.Transport)

	// Initialize Genkit
	g := genkit.Init(ctx)

	// Register all tools
	s.RegisterTools(g)

	s.logger.Info("MCP server is ready to accept requests")

	// Keep the server running
	<-ctx.Done()
	return ctx.Err()
}

func main() {
	// Parse command line flags
	var (
		transport    = flag.String("transport", "", "Transport to use (stdio or sse)")
		host         = flag.String("host", "", "Host to bind the MCP server to")
		port         = flag.Int("port", 0, "Port to bind the MCP server to")
		seedFiles    = flag.String("seed", "", "Comma-separated seed files loaded at startup")
		snapshotPath = flag.String("snapshot-path", "", "Badger directory to restore the store from")
		clearOnStart = flag.Bool("clear-on-start", false, "Clear the store before loading")
	)
	flag.Parse()

	// Create configuration
	config := NewConfig()

	// Apply command line overrides
	if *transport != "" {
		config.Transport = *transport
	}
	if *host != "" {
		config.Host = *host
	}
	if *port != 0 {
		config.Port = *port
	}
	if *seedFiles != "" {
		config.SeedPaths = splitPaths(*seedFiles)
	}
	if *snapshotPath != "" {
		config.SnapshotPath = *snapshotPath
	}
	if *clearOnStart {
		config.ClearOnStart = true
	}

	// Create and initialize server
	server, err := NewMCPServer(config)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	defer server.client.Close()

	ctx := context.Background()
	if err := server.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize MCP server: %v", err)
	}

	// Run the server
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("MCP server error: %v", err)
	}
}
