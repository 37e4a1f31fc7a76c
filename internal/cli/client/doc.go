package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// DocumentRecord mirrors the document API response.
type DocumentRecord struct {
	ID          string `json:"id"`
	Scope       string `json:"scope"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	SHA256      string `json:"sha256"`
	CreatedAt   string `json:"created_at"`
}

// DocCmd creates the doc command group.
func DocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Upload and manage reference documents",
		Long:  "Uploads travel documents (itineraries, guides, confirmations) for indexing. Documents with an empty scope are shared across all travelers.",
	}

	cmd.AddCommand(docUploadCmd())
	cmd.AddCommand(docListCmd())
	cmd.AddCommand(docRmCmd())

	return cmd
}

func docUploadCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for indexing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDocUpload(cmd, args[0], scope, outputJSON)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Subject scope (empty for shared documents)")

	return cmd
}

func runDocUpload(cmd *cobra.Command, filePath, scope string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadDocument(filePath, scope)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var doc DocumentRecord
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		return fmt.Errorf("failed to parse upload response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Uploaded %s (%s, %d bytes)\n", doc.Filename, doc.ID, doc.SizeBytes)
	if doc.Scope != "" {
		fmt.Printf("Scope: %s\n", doc.Scope)
	} else {
		fmt.Println("Scope: shared")
	}
	return nil
}

func docListCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDocList(cmd, scope, outputJSON)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Filter by subject scope")

	return cmd
}

func runDocList(cmd *cobra.Command, scope string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := "/documents"
	if scope != "" {
		path += "?scope=" + url.QueryEscape(scope)
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("document list failed: %w", err)
	}

	var result struct {
		Items []DocumentRecord `json:"items"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse document list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(result.Items) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	for i, doc := range result.Items {
		scopeLabel := doc.Scope
		if scopeLabel == "" {
			scopeLabel = "shared"
		}
		fmt.Printf("%d. %s  %s  [%s]  %d bytes\n", i+1, doc.ID, doc.Filename, scopeLabel, doc.SizeBytes)
	}

	return nil
}

func docRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <document-id>",
		Short: "Delete a document and its indexed chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocRm(cmd, args[0])
		},
	}

	return cmd
}

func runDocRm(cmd *cobra.Command, id string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete("/documents/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("document delete failed: %w", err)
	}

	fmt.Printf("Deleted document %s\n", id)
	return nil
}
