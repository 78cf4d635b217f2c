package llm

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
)

const cnrCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCNR returns a fresh 16-character case number
func NewCNR() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = cnrCharset[int(b)%len(cnrCharset)]
	}
	return string(buf)
}

// GenerateCase drafts a fictional case from the given IPC sections. The
// first returned line is the title, the rest is the markdown case text.
func (c *Client) GenerateCase(ctx context.Context, sections []string, numbers []int) (title, details string, err error) {
	nums := make([]string, len(numbers))
	for i, n := range numbers {
		nums[i] = fmt.Sprint(n)
	}

	system := `You are a legal scholar drafting practice cases for Indian law students. Draft one fictional but realistic civil or criminal case grounded in the Indian Penal Code sections you are given.

The first line of your response must be the case title in the form "Party v. Party". After the title, produce a well-structured Markdown document with sections for Facts of the Case, Charges, Plaintiff's Position and Defendant's Position. Name fictional parties, dates and places. Do not include a verdict or any legal advice.`

	prompt := fmt.Sprintf("Sections involved: %s\nSection numbers: %s",
		strings.Join(sections, ", "), strings.Join(nums, ", "))

	text, err := c.generate(ctx, system, prompt)
	if err != nil {
		return "", "", err
	}

	title, details, ok := strings.Cut(strings.TrimSpace(text), "\n")
	if !ok {
		return "", "", fmt.Errorf("model response missing case body")
	}
	title = strings.Trim(strings.TrimSpace(title), "# *")
	return title, strings.TrimSpace(details), nil
}
