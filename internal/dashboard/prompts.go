package dashboard

import (
	"fmt"
	"strings"

	"github.com/sbk-labs/dashboard-service/internal/domain"
)

// Fixed view strings substituted when upstream content is missing or a
// prompt fails. These are user-facing copy, not errors.
const (
	summaryMissingArticle = "No article data available. Please select an article from the home page."
	summaryUnavailable    = "Could not load article summary."
	insightUnavailable    = "Failed to generate insights."
)

// insightSlotNames orders the five insight slots as rendered.
var insightSlotNames = []string{"trends", "challenges", "opportunities", "recommendations", "analysis"}

// noTopicInsights is the fixed slot content for an empty topic, shown
// without issuing any prompt.
var noTopicInsights = Insights{
	Trends:          "No topic selected. Please navigate from the Home page.",
	Challenges:      "Select a topic to see challenges.",
	Opportunities:   "Select a topic to see opportunities.",
	Recommendations: "Select a topic to see recommendations.",
	Analysis:        "Select a topic to see detailed analysis.",
}

// articleContext renders an article into the prompt context block. Empty
// optional fields are shown as N/A; conclusion and content lines are
// omitted entirely when absent.
func articleContext(a *domain.Article) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: %s\n", a.Title)
	fmt.Fprintf(&sb, "Authors: %s\n", orNA(a.Authors))
	fmt.Fprintf(&sb, "Publication Date: %s\n", orNA(formatPublicationDate(a)))
	fmt.Fprintf(&sb, "Keywords: %s\n", orNA(a.Keywords))
	fmt.Fprintf(&sb, "Abstract: %s", orNA(a.Abstract))
	if a.Conclusion != "" {
		fmt.Fprintf(&sb, "\nConclusion: %s", a.Conclusion)
	}
	if a.Content != "" {
		fmt.Fprintf(&sb, "\nContent: %s", a.Content)
	}

	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatPublicationDate(a *domain.Article) string {
	if a.PublicationDate == nil {
		return ""
	}
	return a.PublicationDate.Format("2006-01-02")
}

// buildSummaryPrompt asks for the structured summary shown when a reading
// view opens.
func buildSummaryPrompt(a *domain.Article) string {
	return fmt.Sprintf(
		"Based on the following research article, provide a detailed summary and analysis:\n\n%s\n\n"+
			"Provide a comprehensive summary highlighting key findings, methodology, and conclusions. "+
			"Structure the response clearly with headings for 'Summary' and 'Conclusion'.",
		articleContext(a),
	)
}

// buildAskPrompt scopes a free-form question to the article's content.
func buildAskPrompt(a *domain.Article, question string) string {
	var sb strings.Builder

	sb.WriteString("Research Article Context:\n")
	fmt.Fprintf(&sb, "Title: %s\n", a.Title)
	fmt.Fprintf(&sb, "Authors: %s\n", orNA(a.Authors))
	fmt.Fprintf(&sb, "Abstract: %s", orNA(a.Abstract))
	if a.Content != "" {
		fmt.Fprintf(&sb, "\nContent: %s", a.Content)
	}
	if a.Conclusion != "" {
		fmt.Fprintf(&sb, "\nConclusion: %s", a.Conclusion)
	}

	fmt.Fprintf(&sb, "\n\nQuestion: %s\n\nPlease answer this question based on the research article provided above.", question)
	return sb.String()
}

// buildInsightPrompt builds the prompt for one of the five insight slots.
// The topic is the readable form, not the slug.
func buildInsightPrompt(slot, topic string) string {
	switch slot {
	case "trends":
		return fmt.Sprintf("Identify 3-4 key research trends in %q for NASA space biology. Be specific and concise (3-4 sentences).", topic)
	case "challenges":
		return fmt.Sprintf("List 3-4 major research challenges in %q for space exploration. Be specific and concise (3-4 sentences).", topic)
	case "opportunities":
		return fmt.Sprintf("Describe 3-4 promising research opportunities in %q for future space missions. Be specific and concise (3-4 sentences).", topic)
	case "recommendations":
		return fmt.Sprintf("Provide 3-4 strategic recommendations for advancing %q research. Be actionable and concise (3-4 sentences).", topic)
	case "analysis":
		return fmt.Sprintf("Provide a comprehensive analysis of the current state of %q research in space biology, including key findings, implications, and future directions. Keep it under 150 words.", topic)
	default:
		return ""
	}
}
