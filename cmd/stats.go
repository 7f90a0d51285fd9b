package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		showWords, _ := cmd.Flags().GetBool("words")
		limit, _ := cmd.Flags().GetInt("limit")
		hardest, _ := cmd.Flags().GetBool("hardest")
		ctx := cmd.Context()
		cfg := loadConfig(cmd)

		svc, closeSvc, err := newService(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSvc()

		st, err := svc.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		if st.WordsReviewed == 0 {
			fmt.Println("No words reviewed yet. Finish a session to see stats.")
			return nil
		}

		fmt.Printf("Words reviewed:  %d\n", st.WordsReviewed)
		fmt.Printf("Correct answers: %d of %d (%d%%)\n", st.Correct, st.Attempts, st.CorrectRate)
		if len(st.Weakest) > 0 {
			fmt.Println("\nWeakest words")
			for _, w := range st.Weakest {
				fmt.Printf("  %-20s  %-4s  %d wrong, %d right\n", truncate(w.Text, 20), w.Language, w.Incorrect, w.Correct)
			}
		}

		if !showWords {
			return nil
		}
		if cfg.Remote() {
			return fmt.Errorf("--words reads the local database and cannot be used with WORDIZ_API_URL")
		}

		s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ProgressRepo().Progress(ctx, cfg.Learner, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if hardest {
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].IncorrectCount > entries[j].IncorrectCount
			})
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		fmt.Println()
		fmt.Printf("%-20s  %-4s  %-20s  %5s  %5s  %s\n",
			"Concept", "Lang", "Word", "Right", "Wrong", "Last reviewed")
		fmt.Println(strings.Repeat("─", 80))
		for _, e := range entries {
			fmt.Printf("%-20s  %-4s  %-20s  %5d  %5d  %s\n",
				truncate(e.Concept, 20),
				e.Language,
				truncate(e.Text, 20),
				e.CorrectCount,
				e.IncorrectCount,
				e.LastReviewed.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("words", false, "List per-word progress (local database only)")
	statsCmd.Flags().IntP("limit", "n", 20, "Number of words to list (0 for all)")
	statsCmd.Flags().Bool("hardest", false, "List words with the most wrong answers first")
}
