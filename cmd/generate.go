package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/bank"
	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/questiongen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Preview generated questions for one topic",
	Long: `Generate questions for a subject topic and print them with their mark
schemes and consistency reports.

Without --save nothing is written: no database, no request log. With --save
the questions are added to the bank.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("subject", "maths", "Subject ID")
	generateCmd.Flags().String("board", "aqa", "Exam board: aqa, edexcel or ocr")
	generateCmd.Flags().String("level", "gcse", "Level: gcse or a-level")
	generateCmd.Flags().String("topic", "", "Topic name or slug (required)")
	generateCmd.Flags().String("difficulty", "intermediate", "Difficulty: foundation, intermediate or higher")
	generateCmd.Flags().Int("count", 1, "Number of questions to generate")
	generateCmd.Flags().Bool("save", false, "Save generated questions to the bank")
	_ = generateCmd.MarkFlagRequired("topic")
}

func criteriaFromFlags(cmd *cobra.Command) (catalog.Criteria, error) {
	subject, _ := cmd.Flags().GetString("subject")
	board, _ := cmd.Flags().GetString("board")
	level, _ := cmd.Flags().GetString("level")
	topic, _ := cmd.Flags().GetString("topic")
	difficulty, _ := cmd.Flags().GetString("difficulty")

	return catalog.Normalize(catalog.Criteria{
		Subject:    subject,
		Board:      catalog.Board(board),
		Level:      catalog.Level(level),
		Topic:      topic,
		Difficulty: catalog.Difficulty(difficulty),
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	c, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")
	save, _ := cmd.Flags().GetBool("save")

	ctx := context.Background()
	var (
		b    *bank.Bank
		sink llm.EventSink
	)
	if save {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		b = bank.New(s.QuestionRepo())
		sink = s.EventRepo()
	}

	provider, err := newProvider(ctx, sink)
	if err != nil {
		return err
	}
	gen := questiongen.New(provider, questiongen.DefaultConfig())

	var prior []string
	if b != nil {
		if prior, err = b.PriorQuestions(ctx, c, questiongen.DefaultConfig().MaxPriorQuestions); err != nil {
			return err
		}
	}

	fmt.Println(headingStyle.Render(c.String()))
	fmt.Printf("Generating %d question(s) with %s...\n\n", count, provider.ModelID())

	for i := 1; i <= count; i++ {
		q, err := gen.Generate(ctx, questiongen.GenerateInput{Criteria: c, PriorQuestions: prior})
		if err != nil {
			fmt.Printf("%s question %d: %v\n\n", failStyle.Render("✗"), i, err)
			continue
		}
		prior = append(prior, q.Text)

		fmt.Println(renderQuestion(i, count, q))

		if b != nil {
			stored, created, err := b.Save(ctx, q)
			if err != nil {
				return err
			}
			if created {
				fmt.Println(okStyle.Render("saved as " + stored.ID))
			} else {
				fmt.Println(dimStyle.Render("duplicate of " + stored.ID + ", not saved"))
			}
		}
		fmt.Println()
	}
	return nil
}

func renderQuestion(i, n int, q *questiongen.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n%s\n\n", headingStyle.Render(fmt.Sprintf("Question %d/%d  [%d marks]", i, n, q.TotalMarks)), q.Text)
	sb.WriteString(headingStyle.Render("Mark scheme") + "\n")
	for _, line := range q.MarkScheme {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n" + headingStyle.Render("Solution") + "\n" + q.Solution)
	if q.Report != nil {
		for _, issue := range q.Report.Issues() {
			sb.WriteString("\n" + failStyle.Render("! "+issue))
		}
	}
	return cardStyle.Render(sb.String())
}
