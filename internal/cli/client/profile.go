package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// ProfileRecord mirrors the profile API response.
type ProfileRecord struct {
	SubjectID    string   `json:"subject_id"`
	HomeCity     string   `json:"home_city,omitempty"`
	SeatClass    string   `json:"seat_class,omitempty"`
	HotelStars   float64  `json:"hotel_stars,omitempty"`
	DietaryNotes string   `json:"dietary_notes,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	UpdatedAt    string   `json:"updated_at"`
}

// ProfileCmd creates the profile command group.
func ProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update traveler preference profiles",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileSetCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	var subjectID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a traveler's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runProfileShow(cmd, DefaultSubjectFor(subjectID), outputJSON)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")

	return cmd
}

func runProfileShow(cmd *cobra.Command, subjectID string, outputJSON bool) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/subjects/" + url.PathEscape(subjectID) + "/profile")
	if err != nil {
		return fmt.Errorf("profile lookup failed: %w", err)
	}

	var profile ProfileRecord
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		return fmt.Errorf("failed to parse profile response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(profile, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Profile for %s\n", profile.SubjectID)
	if profile.HomeCity != "" {
		fmt.Printf("  Home city:  %s\n", profile.HomeCity)
	}
	if profile.SeatClass != "" {
		fmt.Printf("  Seat class: %s\n", profile.SeatClass)
	}
	if profile.HotelStars > 0 {
		fmt.Printf("  Hotel stars: %.1f+\n", profile.HotelStars)
	}
	if profile.DietaryNotes != "" {
		fmt.Printf("  Dietary:    %s\n", profile.DietaryNotes)
	}
	if len(profile.Interests) > 0 {
		fmt.Printf("  Interests:  %s\n", strings.Join(profile.Interests, ", "))
	}
	fmt.Printf("  Updated:    %s\n", profile.UpdatedAt)

	return nil
}

func profileSetCmd() *cobra.Command {
	var (
		subjectID    string
		homeCity     string
		seatClass    string
		hotelStars   float64
		dietaryNotes string
		interests    []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace a traveler's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"home_city":     homeCity,
				"seat_class":    seatClass,
				"hotel_stars":   hotelStars,
				"dietary_notes": dietaryNotes,
				"interests":     interests,
			}
			return runProfileSet(cmd, DefaultSubjectFor(subjectID), body)
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "Traveler subject ID")
	cmd.Flags().StringVar(&homeCity, "home-city", "", "Home city")
	cmd.Flags().StringVar(&seatClass, "seat-class", "", "Preferred seat class")
	cmd.Flags().Float64Var(&hotelStars, "hotel-stars", 0, "Minimum hotel star class")
	cmd.Flags().StringVar(&dietaryNotes, "dietary", "", "Dietary notes")
	cmd.Flags().StringSliceVar(&interests, "interests", nil, "Interests (comma-separated)")

	return cmd
}

func runProfileSet(cmd *cobra.Command, subjectID string, body map[string]any) error {
	if subjectID == "" {
		return fmt.Errorf("subject is required (set --subject or run 'tripweave init')")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Put("/subjects/"+url.PathEscape(subjectID)+"/profile", body); err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	fmt.Printf("Updated profile for %s\n", subjectID)
	return nil
}
