package llm

import (
	"context"
	"fmt"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// OpeningStatement generates the AI lawyer's opening for aiRole
func (c *Client) OpeningStatement(ctx context.Context, aiRole models.Role, caseDetails string) (string, error) {
	system := fmt.Sprintf(`You are an Indian lawyer from the %s's side,
Give an opening statement in brief regarding the case using this information: %s
The user is the %s's lawyer, make sure they dont go beyond the facts of the case and if they do you have to correct them, do not be too polite.`,
		aiRole, caseDetails, aiRole.Opposite())

	return c.generate(ctx, system, "Present your opening statement.")
}

// CounterArgument generates the AI lawyer's reply to the user's latest
// argument, given the alternating case history so far
func (c *Client) CounterArgument(ctx context.Context, history, userInput string, aiRole models.Role, caseDetails string) (string, error) {
	system := fmt.Sprintf(`You are an experienced and assertive Indian trial lawyer representing the %s in a court of law. Below is the case history so far:
%s

Present your next arguments, strictly based on the facts of the case: %s

The user is acting as the lawyer for the %s. If the user attempts to introduce arguments or information beyond the established facts, you must promptly and firmly correct them, maintaining a professional but direct tone. Do not be overly polite. Your priority is to defend your client's interests within the boundaries of the case facts.`,
		aiRole, history, caseDetails, aiRole.Opposite())

	return c.generate(ctx, system, userInput)
}

// ClosingStatement generates the AI lawyer's closing from the full history
func (c *Client) ClosingStatement(ctx context.Context, history string, aiRole models.Role) (string, error) {
	system := fmt.Sprintf(`You are an Indian lawyer from the %s's side, and you require to give a closing statement of 100 words regarding the case using this information: %s

Remember to reiterate key points from your side of the argument, try to include a highlight the evidence supporting your client's position`,
		aiRole, history)

	return c.generate(ctx, system, "Present your closing statement.")
}
