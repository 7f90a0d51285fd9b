package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/vocab"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		svc, closeSvc, err := newService(ctx, loadConfig(cmd))
		if err != nil {
			return err
		}
		defer closeSvc()

		sessions, err := svc.History(ctx, limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet. Run `wordiz` to start one.")
			return nil
		}

		fmt.Printf("%-16s  %-7s  %-12s  %-6s  %-13s  %s\n",
			"Started", "Pair", "Domain", "Level", "Type", "Score")
		fmt.Println(strings.Repeat("─", 72))
		for _, s := range sessions {
			domain := s.Domain
			if domain == "" {
				domain = vocab.AllDomains
			}
			score := "-"
			if s.Score != nil {
				score = fmt.Sprintf("%d%%", *s.Score)
			}
			fmt.Printf("%-16s  %-7s  %-12s  %-6s  %-13s  %s\n",
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				strings.ToUpper(s.NativeLanguage)+"→"+strings.ToUpper(s.LanguageTested),
				truncate(domain, 12),
				s.Difficulty.Label(),
				s.SessionType.Label(),
				score,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
