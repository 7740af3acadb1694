package core

import "strings"

// promptFields lists the prompt labels in their fixed order.
var promptFields = []string{"ID", "Module", "Title", "Description", "Steps", "Expected Results"}

// BuildPrompt concatenates a test case's identifying and descriptive fields
// into the text sent for embedding. Field order is fixed: identifier, module,
// title, description, steps, expected results.
func BuildPrompt(tc TestCase) string {
	values := []string{tc.ID, tc.Module, tc.Title, tc.Description, tc.Steps.String(), tc.ExpectedResults}

	var b strings.Builder
	for i, label := range promptFields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(values[i]))
	}
	return b.String()
}
