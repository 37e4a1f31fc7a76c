package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// ContextQueryRequest represents the context query API request.
type ContextQueryRequest struct {
	SubjectID   string   `json:"subject_id"`
	Query       string   `json:"query"`
	K           int      `json:"k,omitempty"`
	SourceTypes []string `json:"source_types,omitempty"`
}

// RetrievedChunkResult is one chunk returned by a context query.
type RetrievedChunkResult struct {
	Content    string  `json:"content"`
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id,omitempty"`
	Distance   float64 `json:"distance"`
	Band       string  `json:"band"`
}

// IndexResult is the response of an index rebuild.
type IndexResult struct {
	SubjectID  string `json:"subject_id"`
	ChunkCount int    `json:"chunk_count"`
}

// ContextCmd creates the context command group.
func ContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Query and manage traveler context",
		Long:  "Query the retrieval index for a traveler, rebuild their index, or drop it.",
	}

	cmd.AddCommand(contextQueryCmd())
	cmd.AddCommand(contextIndexCmd())
	cmd.AddCommand(contextDropCmd())

	return cmd
}

func contextQueryCmd() *cobra.Command {
	var (
		subjectID   string
		limit       int
		sourceTypes []string
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search a traveler's indexed history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runContextQuery(cmd, DefaultSubjectFor(subjectID), args[0], limit, sourceTypes, outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum chunks to return")
	cmd.Flags().StringSliceVar(&sourceTypes, "source-types", nil, "Restrict to source types (booking, plan, feedback, session, profile, document)")

	return cmd
}

func runContextQuery(cmd *cobra.Command, subjectID, query string, limit int, sourceTypes []string, outputJSON bool) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := ContextQueryRequest{
		SubjectID:   subjectID,
		Query:       query,
		K:           limit,
		SourceTypes: sourceTypes,
	}

	resp, err := api.Post("/context/query", req)
	if err != nil {
		return fmt.Errorf("context query failed: %w", err)
	}

	var result struct {
		Chunks []RetrievedChunkResult `json:"chunks"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse query response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(result.Chunks) == 0 {
		fmt.Println("No matching context found.")
		return nil
	}

	fmt.Printf("Found %d chunks:\n\n", len(result.Chunks))
	for i, chunk := range result.Chunks {
		fmt.Printf("%d. [%s] %s (distance %.3f)\n", i+1, chunk.Band, chunk.SourceType, chunk.Distance)
		fmt.Printf("   %s\n", strings.TrimSpace(chunk.Content))
		if i < len(result.Chunks)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}

func contextIndexCmd() *cobra.Command {
	var subjectID string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild a traveler's retrieval index",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runContextIndex(cmd, DefaultSubjectFor(subjectID), outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")

	return cmd
}

func runContextIndex(cmd *cobra.Command, subjectID string, outputJSON bool) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/subjects/"+url.PathEscape(subjectID)+"/index", nil)
	if err != nil {
		return fmt.Errorf("index rebuild failed: %w", err)
	}

	var result IndexResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse index response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Indexed %d chunks for subject %s\n", result.ChunkCount, result.SubjectID)
	return nil
}

func contextDropCmd() *cobra.Command {
	var subjectID string

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Delete a traveler's retrieval index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContextDrop(cmd, DefaultSubjectFor(subjectID))
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")

	return cmd
}

func runContextDrop(cmd *cobra.Command, subjectID string) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete("/subjects/" + url.PathEscape(subjectID) + "/index"); err != nil {
		return fmt.Errorf("index drop failed: %w", err)
	}

	fmt.Printf("Dropped index for subject %s\n", subjectID)
	return nil
}
