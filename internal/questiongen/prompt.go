package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert JEE tutor writing practice multiple-choice questions for JEE Main aspirants.

Rules:
- Every question has exactly 4 options and exactly one correct option.
- Options are plausible; distractors reflect common mistakes, not random values.
- Test conceptual understanding and problem solving, not rote recall.
- Write inline math between single dollar signs ($v = u + at$) and display math between double dollar signs.
- Questions must be self-contained. Do not refer to figures that are not described in the text.
- The answer is the letter of the correct option: A, B, C or D.
- Do not repeat any question from the "already asked" list.`

// textFormat is appended when asking for plain text instead of JSON.
const textFormat = `Format each question EXACTLY like this, separated by a blank line:
Q: [question]
A. [option A]
B. [option B]
C. [option C]
D. [option D]
Answer: [A/B/C/D]`

// difficultyGuide describes each difficulty level to the model.
var difficultyGuide = map[Difficulty]string{
	DifficultyEasy:     "easy: single-concept questions solvable in under a minute",
	DifficultyMixed:    "mixed: roughly a third easy, a third medium, a third JEE Main hard",
	DifficultyAdvanced: "advanced: multi-step problems at JEE Advanced level",
}

// buildUserMessage constructs the user message for one batch.
func buildUserMessage(input GenerateInput, n int, cfg Config, text bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", input.Subject)
	if len(input.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(input.Topics, ", "))
	}
	if g, ok := difficultyGuide[input.Difficulty]; ok {
		fmt.Fprintf(&b, "Difficulty: %s\n", g)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", n)

	b.WriteString("\nAlready asked in this test:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	if text {
		b.WriteString("\n\n")
		b.WriteString(textFormat)
	}
	return b.String()
}
