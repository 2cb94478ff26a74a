// Package letter renders the formal accommodation request letter.
package letter

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout formats dates as "March 5, 2024".
const DateLayout = "January 2, 2006"

// FormatDate renders t using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Render builds the letter. It is pure: the date is injected, so identical
// inputs always yield an identical string. Accommodations are listed in the
// order given, numbered from 1.
func Render(name, disability string, accommodations []string, context string, date time.Time) string {
	var b strings.Builder

	b.WriteString(FormatDate(date))
	b.WriteString("\n\nTo Whom It May Concern:\n\n")
	b.WriteString("Re: Accommodation Request for " + name + "\n\n")

	b.WriteString("I am writing this letter to formally request accommodations for " + name +
		", who has been diagnosed with " + disability + ". " + name + " is a valued " + context +
		" who requires certain accommodations to ensure equal access and opportunity in their " +
		context + " environment.\n\n")

	b.WriteString("Based on " + name + "'s condition and needs, the following accommodations are recommended:\n\n")
	for i, acc := range accommodations {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(acc)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("These accommodations are essential to help " + name + " fully participate and succeed in their " +
		context + " responsibilities. We kindly request your understanding and cooperation in implementing " +
		"these accommodations as appropriate.\n\n")
	b.WriteString("Please note that this list is not exhaustive, and the specific accommodations should be " +
		"discussed and tailored to " + name + "'s individual needs and circumstances. We encourage open " +
		"communication to ensure that " + name + "'s needs are met effectively.\n\n")
	b.WriteString("If you require any additional information or have any questions regarding these " +
		"accommodations, please do not hesitate to contact us. We are happy to provide further " +
		"clarification or documentation as needed.\n\n")
	b.WriteString("Thank you for your attention to this matter and your commitment to providing an " +
		"inclusive environment for all.\n\n")
	b.WriteString(signOff)

	return strings.TrimSpace(b.String())
}

const signOff = `Sincerely,

[Your Name]
[Your Title/Position]
[Your Institution/Organization]
[Contact Information]`
