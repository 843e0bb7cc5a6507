package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/bank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the question bank",
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored questions per subject, board, level, topic and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := bank.New(s.QuestionRepo()).Stats(context.Background())
		if err != nil {
			return fmt.Errorf("bank stats: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("The question bank is empty.")
			return nil
		}

		fmt.Println(headingStyle.Render(fmt.Sprintf("%-16s  %-8s  %-8s  %-32s  %-12s  %9s  %6s",
			"Subject", "Board", "Level", "Topic", "Difficulty", "Questions", "Served")))
		fmt.Println(rule(105))

		var questions, served int
		for _, r := range rows {
			c := r.Criteria
			fmt.Printf("%-16s  %-8s  %-8s  %-32s  %-12s  %9d  %6d\n",
				c.Subject, c.Board.DisplayName(), c.Level.DisplayName(), truncate(c.Topic, 32),
				c.Difficulty, r.Questions, r.TimesServed)
			questions += r.Questions
			served += r.TimesServed
		}
		fmt.Println(rule(105))
		fmt.Printf("%-86s  %9d  %6d\n", "TOTAL", questions, served)
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankStatsCmd)
}
