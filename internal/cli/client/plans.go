package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// TripPlanDay is one day of a saved itinerary.
type TripPlanDay struct {
	Day       int    `json:"day"`
	Title     string `json:"title"`
	Narrative string `json:"narrative"`
}

// TripPlanRecord mirrors the trip plan API response.
type TripPlanRecord struct {
	ID          string        `json:"id"`
	SubjectID   string        `json:"subject_id"`
	Destination string        `json:"destination"`
	Country     string        `json:"country"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Days        []TripPlanDay `json:"days"`
	CreatedAt   string        `json:"created_at"`
}

// PlansCmd creates the plans command group.
func PlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List and inspect saved trip plans",
	}

	cmd.AddCommand(plansListCmd())
	cmd.AddCommand(plansShowCmd())
	cmd.AddCommand(plansRmCmd())

	return cmd
}

func plansListCmd() *cobra.Command {
	var (
		subjectID string
		cursor    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a traveler's saved trip plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runPlansList(cmd, DefaultSubjectFor(subjectID), cursor, limit, outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")

	return cmd
}

func runPlansList(cmd *cobra.Command, subjectID, cursor string, limit int, outputJSON bool) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	resp, err := api.Get("/subjects/" + url.PathEscape(subjectID) + "/plans?" + params.Encode())
	if err != nil {
		return fmt.Errorf("plan list failed: %w", err)
	}

	var page struct {
		Items   []TripPlanRecord `json:"items"`
		Cursor  string           `json:"cursor"`
		HasMore bool             `json:"has_more"`
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		return fmt.Errorf("failed to parse plan list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(page, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(page.Items) == 0 {
		fmt.Println("No trip plans found.")
		return nil
	}

	for i, p := range page.Items {
		fmt.Printf("%d. %s  %s", i+1, p.ID, p.Destination)
		if p.Country != "" {
			fmt.Printf(", %s", p.Country)
		}
		fmt.Printf("  (%s to %s, %d days)\n", p.StartDate, p.EndDate, len(p.Days))
	}

	if page.HasMore {
		fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
	}

	return nil
}

func plansShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a saved trip plan day by day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runPlansShow(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runPlansShow(cmd *cobra.Command, id string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/plans/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("plan lookup failed: %w", err)
	}

	var plan TripPlanRecord
	if err := json.Unmarshal(resp.Data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(plan, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s (%s to %s)\n", plan.Destination, plan.StartDate, plan.EndDate)
	for _, day := range plan.Days {
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("Day %d: %s\n", day.Day, day.Title)
		if day.Narrative != "" {
			fmt.Printf("%s\n", day.Narrative)
		}
	}

	return nil
}

func plansRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <plan-id>",
		Short: "Delete a saved trip plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlansRm(cmd, args[0])
		},
	}

	return cmd
}

func runPlansRm(cmd *cobra.Command, id string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete("/plans/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("plan delete failed: %w", err)
	}

	fmt.Printf("Deleted plan %s\n", id)
	return nil
}
