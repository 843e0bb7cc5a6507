package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/pastpapers/internal/catalog"
)

const systemPrompt = `You are an experienced UK examiner writing practice questions in the style of past GCSE and A-Level papers.

Rules:
- Write exactly one question for the given subject, exam board, level, topic and difficulty.
- Match the command words, structure and mark allocation the named exam board uses.
- Multi-part questions label parts (a), (b), (c) and sub-parts (i), (ii), (iii). Every labelled part must have at least one mark-scheme entry starting with the same label.
- Each mark-scheme entry is one marking point and starts with a mark code: M (method), A (accuracy), B (independent) or SC (special case), followed by the number of marks, e.g. "M1 correct substitution".
- total_marks must equal the sum of the mark codes in the mark scheme.
- The solution is a complete worked answer a student could learn from.
- Use plain text for mathematics: ^ for powers, sqrt() for roots, / for fractions. No LaTeX.
- Do not repeat or lightly reword any question from the "already in the bank" list.`

var difficultyGuidance = map[catalog.Difficulty]string{
	catalog.DifficultyFoundation:   "accessible opening question; one or two steps; 1-4 marks",
	catalog.DifficultyIntermediate: "typical mid-paper question; several steps; 3-7 marks",
	catalog.DifficultyHigher:       "demanding end-of-paper question; multi-step reasoning or unfamiliar context; 5-12 marks",
}

// buildUserMessage constructs the user message from GenerateInput.
func buildUserMessage(input GenerateInput, cfg Config) string {
	c := input.Criteria

	subject := c.Subject
	if s, ok := catalog.SubjectByID(c.Subject); ok {
		subject = s.Name
	}
	topic := catalog.Unslugify(c.Topic)
	if t, ok := catalog.TopicBySlug(c.Subject, c.Topic); ok {
		topic = t.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Exam board: %s\n", c.Board.DisplayName())
	fmt.Fprintf(&b, "Level: %s\n", c.Level.DisplayName())
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", c.Difficulty.DisplayName(), difficultyGuidance[c.Difficulty])

	b.WriteString("\nAlready in the bank:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

// retryMessage tells the model why its previous answer was rejected.
func retryMessage(verr *ValidationError) string {
	return fmt.Sprintf("That question was rejected: %s. Write a new question that fixes this.", verr.Message)
}
