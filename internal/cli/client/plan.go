package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// PlanRequest represents the plan API request.
type PlanRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Country     string  `json:"country,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Travelers   int     `json:"travelers,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Preferences string  `json:"preferences,omitempty"`
	SubjectID   string  `json:"subject_id,omitempty"`
}

// CategoryOutcome is one category's fate in the returned bundle.
type CategoryOutcome struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// PlanResponse is the subset of the recommendation bundle the CLI renders.
type PlanResponse struct {
	Summary struct {
		FlightCount     int `json:"flight_count"`
		HotelCount      int `json:"hotel_count"`
		CarCount        int `json:"car_count"`
		RestaurantCount int `json:"restaurant_count"`
	} `json:"summary"`
	RecommendedFlight *struct {
		Offer struct {
			Airline  string  `json:"airline"`
			FlightNo string  `json:"flight_no"`
			Price    float64 `json:"price"`
		} `json:"offer"`
		Status string `json:"status"`
	} `json:"recommended_flight,omitempty"`
	RecommendedHotel *struct {
		Offer struct {
			Name          string  `json:"name"`
			PricePerNight float64 `json:"price_per_night"`
		} `json:"offer"`
	} `json:"recommended_hotel,omitempty"`
	RecommendedCar *struct {
		Offer struct {
			Company     string  `json:"company"`
			CarType     string  `json:"car_type"`
			PricePerDay float64 `json:"price_per_day"`
		} `json:"offer"`
	} `json:"recommended_car,omitempty"`
	RecommendedRestaurant *struct {
		Offer struct {
			Name         string  `json:"name"`
			Cuisine      string  `json:"cuisine"`
			AveragePrice float64 `json:"average_price"`
		} `json:"offer"`
	} `json:"recommended_restaurant,omitempty"`
	TotalCostEstimate float64                    `json:"total_cost_estimate"`
	Currency          string                     `json:"currency,omitempty"`
	Outcomes          map[string]CategoryOutcome `json:"outcomes"`
	Context           string                     `json:"context,omitempty"`
}

// PlanCmd creates the plan command.
func PlanCmd() *cobra.Command {
	var req PlanRequest

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run a trip planning search",
		Long:  "Searches flights, hotels, cars, and restaurants for a trip and prints the recommendation bundle.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			req.SubjectID = DefaultSubjectFor(req.SubjectID)
			return runPlan(cmd, req, outputJSON)
		},
	}

	cmd.Flags().StringVar(&req.Origin, "origin", "", "Origin airport or city (required)")
	cmd.Flags().StringVar(&req.Destination, "destination", "", "Destination city (required)")
	cmd.Flags().StringVar(&req.Country, "country", "", "Destination country")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Start date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "End date (YYYY-MM-DD, required)")
	cmd.Flags().IntVar(&req.Travelers, "travelers", 1, "Number of travelers")
	cmd.Flags().Float64Var(&req.Budget, "budget", 0, "Flight budget target")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "Budget currency")
	cmd.Flags().StringVar(&req.Preferences, "preferences", "", "Free-form preferences")
	cmd.Flags().StringVar(&req.SubjectID, "subject", "", "Traveler subject ID for personalized context")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runPlan(cmd *cobra.Command, req PlanRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/plan", req)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	if outputJSON {
		var pretty json.RawMessage = resp.Data
		output, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	var plan PlanResponse
	if err := json.Unmarshal(resp.Data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan response: %w", err)
	}

	fmt.Printf("Trip: %s -> %s (%s to %s)\n\n", req.Origin, req.Destination, req.StartDate, req.EndDate)

	if plan.RecommendedFlight != nil {
		f := plan.RecommendedFlight.Offer
		fmt.Printf("Flight:     %s %s, %.2f %s (%s)\n", f.Airline, f.FlightNo, f.Price, plan.Currency, plan.RecommendedFlight.Status)
	} else {
		fmt.Printf("Flight:     %s\n", outcomeLine(plan.Outcomes["flight"]))
	}

	if plan.RecommendedHotel != nil {
		h := plan.RecommendedHotel.Offer
		fmt.Printf("Hotel:      %s, %.2f/night\n", h.Name, h.PricePerNight)
	} else {
		fmt.Printf("Hotel:      %s\n", outcomeLine(plan.Outcomes["hotel"]))
	}

	if plan.RecommendedCar != nil {
		c := plan.RecommendedCar.Offer
		fmt.Printf("Car:        %s %s, %.2f/day\n", c.Company, c.CarType, c.PricePerDay)
	} else {
		fmt.Printf("Car:        %s\n", outcomeLine(plan.Outcomes["car"]))
	}

	if plan.RecommendedRestaurant != nil {
		r := plan.RecommendedRestaurant.Offer
		fmt.Printf("Restaurant: %s (%s), ~%.2f/person\n", r.Name, r.Cuisine, r.AveragePrice)
	} else {
		fmt.Printf("Restaurant: %s\n", outcomeLine(plan.Outcomes["restaurant"]))
	}

	fmt.Printf("\nEstimated total: %.2f %s\n", plan.TotalCostEstimate, plan.Currency)
	fmt.Printf("Candidates: %d flights, %d hotels, %d cars, %d restaurants\n",
		plan.Summary.FlightCount, plan.Summary.HotelCount, plan.Summary.CarCount, plan.Summary.RestaurantCount)

	if plan.Context != "" {
		fmt.Printf("\n%s\nTraveler context used:\n%s\n", strings.Repeat("-", 40), plan.Context)
	}

	return nil
}

func outcomeLine(outcome CategoryOutcome) string {
	switch outcome.Status {
	case "unavailable":
		return "no offers found"
	case "error":
		return "search failed: " + outcome.Error
	case "not_searched":
		return "not searched"
	case "":
		return "not searched"
	default:
		return outcome.Status
	}
}
