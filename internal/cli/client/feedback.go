package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// FeedbackCmd creates the feedback command.
func FeedbackCmd() *cobra.Command {
	var (
		subjectID  string
		tripPlanID string
		rating     int
	)

	cmd := &cobra.Command{
		Use:   "feedback <comment>",
		Short: "Record feedback about a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runFeedback(cmd, DefaultSubjectFor(subjectID), tripPlanID, rating, args[0], outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().StringVar(&tripPlanID, "plan", "", "Trip plan ID the feedback refers to")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")

	return cmd
}

func runFeedback(cmd *cobra.Command, subjectID, tripPlanID string, rating int, comment string, outputJSON bool) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	body := map[string]any{
		"subject_id":   subjectID,
		"trip_plan_id": tripPlanID,
		"rating":       rating,
		"comment":      comment,
	}

	resp, err := api.Post("/feedback", body)
	if err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse feedback response: %w", err)
	}

	if outputJSON {
		var pretty json.RawMessage = resp.Data
		output, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Recorded feedback %s\n", result.ID)
	return nil
}
