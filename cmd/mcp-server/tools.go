package main

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/soundprediction/patternbase/pkg/server/dto"
	"github.com/soundprediction/patternbase/pkg/types"
)

// Tool request/response types

// SearchRequest represents search parameters
type SearchRequest struct {
	Query      string   `json:"query"`
	Category   string   `json:"category,omitempty"`
	ServerType string   `json:"server_type,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	FuzzyMatch bool     `json:"fuzzy_match,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// IDRequest represents a simple record ID parameter
type IDRequest struct {
	ID string `json:"id"`
}

// RecordRequest identifies a record by variant and ID
type RecordRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// BrowseRequest lists records by a single classification axis
type BrowseRequest struct {
	Category   string `json:"category,omitempty"`
	ServerType string `json:"server_type,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// EmptyRequest is used by tools that take no parameters
type EmptyRequest struct{}

// ClearRequest represents parameters for clearing the store
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// ToolResponse is a generic response wrapper
type ToolResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SearchKnowledgeTool handles relevance-ranked search over the store
func (s *MCPServer) SearchKnowledgeTool(ctx *ai.ToolContext, input *SearchRequest) (*ToolResponse, error) {
	req := dto.SearchRequest{
		Query:      input.Query,
		Category:   input.Category,
		ServerType: input.ServerType,
		Difficulty: input.Difficulty,
		Tags:       input.Tags,
		FuzzyMatch: input.FuzzyMatch,
		Limit:      input.Limit,
	}
	query, err := req.Validate()
	if err != nil {
		return &ToolResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	results, err := s.client.Search(query)
	if err != nil {
		s.logger.Error("Failed to search knowledge", "error", err)
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to search knowledge: %v", err),
		}, nil
	}

	if results.TotalResults == 0 {
		return &ToolResponse{
			Success: true,
			Message: "No relevant records found",
			Data:    results,
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d matching records", results.TotalResults),
		Data:    results,
	}, nil
}

// GetPatternTool handles pattern lookup by ID
func (s *MCPServer) GetPatternTool(ctx *ai.ToolContext, input *IDRequest) (*ToolResponse, error) {
	if input.ID == "" {
		return &ToolResponse{
			Success: false,
			Error:   "ID is required",
		}, nil
	}

	pattern, ok := s.client.Pattern(input.ID)
	if !ok {
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Pattern %q not found", input.ID),
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: "Pattern retrieved successfully",
		Data:    pattern,
	}, nil
}

// GetExampleTool handles example lookup by ID
func (s *MCPServer) GetExampleTool(ctx *ai.ToolContext, input *IDRequest) (*ToolResponse, error) {
	if input.ID == "" {
		return &ToolResponse{
			Success: false,
			Error:   "ID is required",
		}, nil
	}

	example, ok := s.client.Example(input.ID)
	if !ok {
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Example %q not found", input.ID),
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: "Example retrieved successfully",
		Data:    example,
	}, nil
}

// GetRecordTool handles lookup of any record variant by ID
func (s *MCPServer) GetRecordTool(ctx *ai.ToolContext, input *RecordRequest) (*ToolResponse, error) {
	if input.ID == "" {
		return &ToolResponse{
			Success: false,
			Error:   "ID is required",
		}, nil
	}

	kind, err := dto.ParseKind(input.Kind)
	if err != nil {
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Unknown record variant %q", input.Kind),
		}, nil
	}

	rec, ok := s.client.Get(kind, input.ID)
	if !ok {
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("%s %q not found", kind, input.ID),
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: "Record retrieved successfully",
		Data:    rec,
	}, nil
}

// BrowseRecordsTool lists records along one classification axis
func (s *MCPServer) BrowseRecordsTool(ctx *ai.ToolContext, input *BrowseRequest) (*ToolResponse, error) {
	var records []types.Record
	switch {
	case input.Category != "":
		records = s.client.Store().ByCategory(input.Category)
	case input.ServerType != "":
		records = s.client.Store().ByServer(input.ServerType)
	case input.Difficulty != "":
		d := types.Difficulty(input.Difficulty)
		if !d.Valid() {
			return &ToolResponse{
				Success: false,
				Error:   "Difficulty must be beginner, intermediate, or advanced",
			}, nil
		}
		records = s.client.Store().ByDifficulty(d)
	default:
		return &ToolResponse{
			Success: false,
			Error:   "One of category, server_type, or difficulty is required",
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d records", len(records)),
		Data: map[string]interface{}{
			"records": records,
			"total":   len(records),
		},
	}, nil
}

// StoreStatsTool reports record counts per variant
func (s *MCPServer) StoreStatsTool(ctx *ai.ToolContext, input *EmptyRequest) (*ToolResponse, error) {
	return &ToolResponse{
		Success: true,
		Message: "Store statistics retrieved successfully",
		Data:    s.client.StoreStats(),
	}, nil
}

// CacheStatsTool reports query-cache accounting
func (s *MCPServer) CacheStatsTool(ctx *ai.ToolContext, input *EmptyRequest) (*ToolResponse, error) {
	return &ToolResponse{
		Success: true,
		Message: "Cache statistics retrieved successfully",
		Data:    s.client.CacheStats(),
	}, nil
}

// ClearKnowledgeTool handles clearing the store
func (s *MCPServer) ClearKnowledgeTool(ctx *ai.ToolContext, input *ClearRequest) (*ToolResponse, error) {
	// Safety check - require explicit confirmation
	if !input.Confirm {
		return &ToolResponse{
			Success: false,
			Error:   "Clearing requires explicit confirmation. Set 'confirm' to true to proceed.",
		}, nil
	}

	s.logger.Warn("Clearing all records from the knowledge store")
	s.client.ClearAll()

	return &ToolResponse{
		Success: true,
		Message: "Knowledge store cleared successfully",
	}, nil
}
