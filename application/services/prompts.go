package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yogishpa/graph-samples/domain/config"
)

// BuildCypherPrompt asks the model for a single OpenCypher query answering
// question against the catalog's dataset.
func BuildCypherPrompt(catalog *config.PromptCatalog, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given this natural language question: %s\n", question)
	fmt.Fprintf(&b, "Generate a valid OpenCypher query for Neptune database with %s dataset.\n", catalog.Dataset)
	for i, line := range catalog.Schema {
		if i == 0 {
			b.WriteString("Schema: ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(catalog.Examples) > 0 {
		b.WriteString("Examples:\n")
		for _, example := range catalog.Examples {
			fmt.Fprintf(&b, "- %s\n", example)
		}
	}
	b.WriteString("Return ONLY the OpenCypher query, no explanations or markdown:\n")
	return b.String()
}

// CleanQuery strips surrounding whitespace and a markdown code fence from a
// model reply. A fenced reply keeps only the lines between the fences.
func CleanQuery(reply string) string {
	query := strings.TrimSpace(reply)
	if strings.HasPrefix(query, "```") {
		lines := strings.Split(query, "\n")
		if len(lines) <= 2 {
			return ""
		}
		query = strings.Join(lines[1:len(lines)-1], "\n")
	}
	return strings.TrimSpace(query)
}

// BuildAnswerPrompt asks the model to phrase results as an answer
func BuildAnswerPrompt(question string, results any) string {
	data, err := json.Marshal(results)
	if err != nil {
		data = []byte(fmt.Sprint(results))
	}
	return fmt.Sprintf("Convert these database results into natural language answer for: %s\nResults: %s", question, data)
}
