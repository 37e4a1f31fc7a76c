package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// BookingRecord mirrors the booking API response.
type BookingRecord struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subject_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

// BookingCmd creates the booking command group.
func BookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Record and manage trip bookings",
	}

	cmd.AddCommand(bookingAddCmd())
	cmd.AddCommand(bookingListCmd())
	cmd.AddCommand(bookingRmCmd())

	return cmd
}

func bookingAddCmd() *cobra.Command {
	var (
		subjectID string
		kind      string
		location  string
		startDate string
		endDate   string
		price     float64
		currency  string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			body := map[string]any{
				"subject_id": DefaultSubjectFor(subjectID),
				"kind":       kind,
				"title":      args[0],
				"location":   location,
				"start_date": startDate,
				"end_date":   endDate,
				"price":      price,
				"currency":   currency,
				"notes":      notes,
			}
			return runBookingAdd(cmd, body, outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().StringVar(&kind, "kind", "", "Booking kind (flight, hotel, car, restaurant)")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&price, "price", 0, "Total price")
	cmd.Flags().StringVar(&currency, "currency", "", "Price currency")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func runBookingAdd(cmd *cobra.Command, body map[string]any, outputJSON bool) error {
	if body["subject_id"] == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/bookings", body)
	if err != nil {
		return fmt.Errorf("booking failed: %w", err)
	}

	var booking BookingRecord
	if err := json.Unmarshal(resp.Data, &booking); err != nil {
		return fmt.Errorf("failed to parse booking response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(booking, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Recorded booking %s: %s\n", booking.ID, booking.Title)
	return nil
}

func bookingListCmd() *cobra.Command {
	var (
		subjectID string
		cursor    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a traveler's bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runBookingList(cmd, DefaultSubjectFor(subjectID), cursor, limit, outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")

	return cmd
}

func runBookingList(cmd *cobra.Command, subjectID, cursor string, limit int, outputJSON bool) error {
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

	resp, err := api.Get("/subjects/" + url.PathEscape(subjectID) + "/bookings?" + params.Encode())
	if err != nil {
		return fmt.Errorf("booking list failed: %w", err)
	}

	var page struct {
		Items   []BookingRecord `json:"items"`
		Cursor  string          `json:"cursor"`
		HasMore bool            `json:"has_more"`
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		return fmt.Errorf("failed to parse booking list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(page, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(page.Items) == 0 {
		fmt.Println("No bookings found.")
		return nil
	}

	for i, b := range page.Items {
		fmt.Printf("%d. %s [%s] %s\n", i+1, b.ID, b.Kind, b.Title)
		if b.Location != "" {
			fmt.Printf("   %s", b.Location)
			if b.StartDate != "" {
				fmt.Printf(", %s to %s", b.StartDate, b.EndDate)
			}
			fmt.Println()
		}
		if b.Price > 0 {
			fmt.Printf("   %.2f %s\n", b.Price, b.Currency)
		}
		if i < len(page.Items)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	if page.HasMore {
		fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
	}

	return nil
}

func bookingRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <booking-id>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookingRm(cmd, args[0])
		},
	}

	return cmd
}

func runBookingRm(cmd *cobra.Command, id string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete("/bookings/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("booking delete failed: %w", err)
	}

	fmt.Printf("Deleted booking %s\n", id)
	return nil
}
