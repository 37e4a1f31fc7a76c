package retrieval

import (
	"fmt"
	"strings"

	"github.com/tripweave-ai/tripweave/internal/domain"
)

// The narrative builders convert structured source records into bounded,
// human-readable sentences. Chunks are prose, not raw field dumps, so the
// embeddings carry meaning a query can land on.

// maxNarrativeChars bounds a single narrative chunk; longer plan days are
// windowed like documents.
const maxNarrativeChars = 800

func bookingNarrative(b domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking: %s (%s)", b.Title, b.Kind)
	if b.Location != "" {
		fmt.Fprintf(&sb, " in %s", b.Location)
	}
	if !b.StartDate.IsZero() {
		fmt.Fprintf(&sb, " from %s", b.StartDate.Format("January 2, 2006"))
		if !b.EndDate.IsZero() && !b.EndDate.Equal(b.StartDate) {
			fmt.Fprintf(&sb, " to %s", b.EndDate.Format("January 2, 2006"))
		}
	}
	if b.Price > 0 {
		currency := b.Currency
		if currency == "" {
			currency = "USD"
		}
		fmt.Fprintf(&sb, ", paid %.2f %s", b.Price, currency)
	}
	sb.WriteString(".")
	if b.Notes != "" {
		fmt.Fprintf(&sb, " Notes: %s", b.Notes)
	}
	return truncate(sb.String(), maxNarrativeChars)
}

func planNarratives(p domain.TripPlan) []string {
	var chunks []string

	var header strings.Builder
	fmt.Fprintf(&header, "Trip plan to %s", p.Destination)
	if p.Country != "" {
		fmt.Fprintf(&header, ", %s", p.Country)
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() {
		fmt.Fprintf(&header, ", %s to %s",
			p.StartDate.Format("January 2, 2006"), p.EndDate.Format("January 2, 2006"))
	}
	header.WriteString(".")
	chunks = append(chunks, header.String())

	for _, day := range p.Days {
		text := fmt.Sprintf("Day %d of the %s trip", day.Day, p.Destination)
		if day.Title != "" {
			text += ": " + day.Title
		}
		text += "."
		if day.Narrative != "" {
			text += " " + day.Narrative
		}
		// A long day narrative is windowed so each fragment stays bounded.
		chunks = append(chunks, splitWindows(text, WindowConfig{
			MaxChars: maxNarrativeChars,
			MinChars: 200,
			Overlap:  100,
		})...)
	}
	return chunks
}

func feedbackNarrative(f domain.Feedback) string {
	text := fmt.Sprintf("Traveler feedback rated %d out of 5", f.Rating)
	if f.Comment != "" {
		text += ": " + f.Comment
	} else {
		text += "."
	}
	return truncate(text, maxNarrativeChars)
}

func sessionNarrative(s domain.SessionIntent) string {
	return truncate("Past planning session: "+s.Summary, maxNarrativeChars)
}

func profileNarrative(p domain.TravelerProfile) string {
	var parts []string
	if p.HomeCity != "" {
		parts = append(parts, fmt.Sprintf("lives in %s", p.HomeCity))
	}
	if p.SeatClass != "" {
		parts = append(parts, fmt.Sprintf("prefers %s class flights", p.SeatClass))
	}
	if p.HotelStars > 0 {
		parts = append(parts, fmt.Sprintf("prefers %.0f-star hotels", p.HotelStars))
	}
	if p.DietaryNotes != "" {
		parts = append(parts, "dietary notes: "+p.DietaryNotes)
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "interests: "+strings.Join(p.Interests, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return truncate("Traveler profile: "+strings.Join(parts, "; ")+".", maxNarrativeChars)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
