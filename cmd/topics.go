package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/catalog"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List subjects and topics with their slugs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectID, _ := cmd.Flags().GetString("subject")
		levelVal, _ := cmd.Flags().GetString("level")

		var level catalog.Level
		if levelVal != "" {
			l, err := catalog.ParseLevel(levelVal)
			if err != nil {
				return err
			}
			level = l
		}

		subjects := catalog.AllSubjects()
		if subjectID != "" {
			s, ok := catalog.SubjectByID(strings.ToLower(subjectID))
			if !ok {
				return fmt.Errorf("unknown subject %q", subjectID)
			}
			subjects = []catalog.Subject{s}
		}

		for _, s := range subjects {
			topics := catalog.TopicsFor(s.ID, level)
			if len(topics) == 0 {
				continue
			}
			fmt.Println(headingStyle.Render(fmt.Sprintf("%s (%s)", s.Name, s.ID)))
			for _, t := range topics {
				levels := make([]string, len(t.Levels))
				for i, l := range t.Levels {
					levels[i] = l.DisplayName()
				}
				fmt.Printf("  %-36s %s\n", t.ID, dimStyle.Render(t.Name+" · "+strings.Join(levels, ", ")))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().String("subject", "", "Only list this subject")
	topicsCmd.Flags().String("level", "", "Only list topics examined at this level")
}
