package accommodation

import (
	"fmt"
	"strings"

	"accomapi/internal/model"
)

var categoryHints = []string{
	"Academic or work environment modifications",
	"Technological aids",
	"Assessment and evaluation adjustments",
	"Communication and interaction supports",
	"Time management and organization assistance",
	"Scheduling flexibility, such as priority registration",
	"Flexible deadlines and extended time for exams where needed",
}

// BuildPrompt returns the instruction sent to the model. Inputs are inserted
// verbatim; the destination is natural language, so nothing is escaped.
func BuildPrompt(disability, context string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "For a person with the following disability: \"%s\" in a %s context, provide EXACTLY %d accommodations. ",
		disability, context, model.TargetAccommodations)
	sb.WriteString("Focus on accommodations that:\n\n")
	sb.WriteString("1. Are supported by research or established best practice\n")
	sb.WriteString("2. Directly address the core challenges associated with the disability\n")
	sb.WriteString("3. Can be implemented at an institutional level, not advice for the individual alone\n")
	sb.WriteString("4. Are accommodations people already use and find helpful\n\n")

	sb.WriteString("Consider accommodations in, but not limited to, these categories:\n")
	for _, h := range categoryHints {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Do not give generic, potentially stigmatizing, or personal advice suggestions. ")
	sb.WriteString("Be extensive, and make sure every accommodation is appropriate to request from an institution.\n\n")

	fmt.Fprintf(&sb, "IMPORTANT: Respond with a valid JSON array of exactly %d objects. ", model.TargetAccommodations)
	sb.WriteString(`Each object has a single key "accommodation" whose string value describes one accommodation. `)
	sb.WriteString("The whole response must be parseable as JSON.\n\n")

	sb.WriteString("Example of the expected format:\n")
	sb.WriteString("[\n")
	sb.WriteString(`  {"accommodation": "Provide access to a quiet, distraction-reduced testing environment for exams and assessments."},` + "\n")
	sb.WriteString(`  {"accommodation": "Allow noise-cancelling headphones or earplugs during lectures and study sessions."},` + "\n")
	fmt.Fprintf(&sb, "  ... (%d more objects)\n", model.TargetAccommodations-2)
	sb.WriteString("]\n\n")

	sb.WriteString("Return only this JSON array and no other text.")
	return sb.String()
}
