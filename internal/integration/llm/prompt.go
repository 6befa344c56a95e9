package llm

import (
	"fmt"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

const historyTurns = 3

// systemPrompt frames the assistant and carries the fused knowledge and live data context.
func systemPrompt(req *entity.GenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are jalBuddy, an expert groundwater consultant for India.\n")
	b.WriteString("Provide practical advice based on GEC-2015 methodology and INGRES data.\n")

	if req.Location != "" {
		fmt.Fprintf(&b, "User location: %s\n", req.Location)
	}

	if req.Context != "" {
		b.WriteString("\n")
		b.WriteString(req.Context)
		b.WriteString("\n")
	}

	b.WriteString("\nGuidelines:\n")
	b.WriteString("- Provide practical, actionable groundwater advice\n")
	b.WriteString("- Reference GEC-2015 methodology when relevant\n")
	b.WriteString("- Be concise but comprehensive\n")
	b.WriteString("- Prioritize water conservation and safety\n")

	if req.Language == entity.LanguageHindi {
		b.WriteString("- Answer in Hindi (Devanagari script)\n")
	} else {
		b.WriteString("- Answer in English, using Hindi terms for technical concepts when helpful\n")
	}

	return b.String()
}

// userPrompt prepends the most recent exchanges to the question.
func userPrompt(req *entity.GenerateRequest) string {
	history := req.History
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	if len(history) == 0 {
		return req.Query
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, ex := range history {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.Query, ex.Response)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(req.Query)

	return b.String()
}
