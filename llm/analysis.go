package llm

import (
	"context"
	"fmt"
	"strings"
)

// AnalyzeCase reviews the user's performance after a verdict and returns a
// markdown report with outcome, reasoning, mistakes and suggestions.
func (c *Client) AnalyzeCase(ctx context.Context, title, caseDetails string, userArgs, counterArgs []string, verdict string) (string, error) {
	if len(userArgs) == 0 {
		return `### Outcome
- unknown

### Reasoning
No arguments were provided to evaluate.

### Mistakes
- No arguments provided.

### Suggestions
- Present at least one argument to support your case.`, nil
	}

	system := fmt.Sprintf(`You are a legal expert AI. Analyze the following case and the arguments from both sides. Identify any mistakes or weaknesses in the user's arguments and provide actionable suggestions for improvement.

CASE TITLE: %s
CASE DETAILS: %s

USER ARGUMENTS:
%s

OPPONENT ARGUMENTS:
%s

JUDGE'S VERDICT: %s

Analyze the case details, the user arguments, the opponent arguments, and the judge's verdict to determine the outcome.

Return your response as a well-structured Markdown document with the following sections:

### Outcome
- 'outcome' (string): Whether the user won or lost the case (e.g., 'win', 'lose', 'unknown')

### Reasoning
- Detailed reasoning for the outcome based on the arguments and verdict.

### Mistakes
- Identify mistakes or weaknesses in each of the user's arguments as a bulleted list.

### Suggestions
- Provide actionable suggestions for improvement in each argument as a bulleted list.`,
		orDefault(title, "Untitled"),
		orDefault(caseDetails, "No details provided."),
		orDefault(strings.Join(userArgs, "\n"), "None"),
		orDefault(strings.Join(counterArgs, "\n"), "None"),
		orDefault(verdict, "No verdict provided"))

	return c.generate(ctx, system, "Analyze the case.")
}
