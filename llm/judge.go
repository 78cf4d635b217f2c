package llm

import (
	"context"
	"fmt"
	"strings"
)

// Verdict evaluates both sides' arguments and delivers the judge's ruling.
// The exchange is summarized first, then judged, so long cases stay within
// the model's attention.
func (c *Client) Verdict(ctx context.Context, plaintiffArgs, defendantArgs []string, caseDetails string) (string, error) {
	history := strings.Join(append(append([]string{}, plaintiffArgs...), defendantArgs...), "\n")

	summary, err := c.generate(ctx, `You are a legal assistant. Your task is to summarize the key arguments made in this courtroom exchange.

Summarize the back-and-forth conversation between the lawyers in a concise, neutral manner.
Focus only on legal points made by both sides and counterarguments.`, history)
	if err != nil {
		return "", err
	}

	plaintiffClosing := lastOrDefault(plaintiffArgs, "No closing statement provided")
	defendantClosing := lastOrDefault(defendantArgs, "No closing statement provided")

	system := fmt.Sprintf(`You are a judge presiding over a courtroom in India. You have received a legal case and closing statements from both the Plaintiff and the Defendant.

Your job is to carefully evaluate the closing statements and the key arguments raised by both sides during the case.

Here is the case description:
"""%s"""

Here is the summarized courtroom argument history:
"""%s"""

Closing statement from the Plaintiff:
"""%s"""

Closing statement from the Defendant:
"""%s"""

Please now deliver a final verdict, clearly stating:
1. Which side wins and why
2. The reasoning based on law and argument
3. A professional tone of authority and finality

Use formal judicial language. Be balanced, clear, and precise.`,
		orDefault(caseDetails, "No case details provided"), summary, plaintiffClosing, defendantClosing)

	return c.generate(ctx, system, "Deliver the verdict.")
}

func lastOrDefault(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return args[len(args)-1]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
