package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
	"github.com/abhisek/wordiz/internal/wordgen"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage the word catalog",
}

var wordsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a word list JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		wl, err := vocab.ParseWordList(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		st, err := openStore(cmd.Context(), loadConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.CatalogRepo().ImportWords(cmd.Context(), wl)
		if err != nil {
			return fmt.Errorf("import words: %w", err)
		}
		printImportStats(stats)
		return nil
	},
}

var wordsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new words with an LLM",
	Long: "Asks the configured LLM provider for a word list in one domain.\n" +
		"Set WORDIZ_LLM_PROVIDER (or a vendor API key) to choose the provider.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		domainCode, _ := cmd.Flags().GetString("domain")
		diffFlag, _ := cmd.Flags().GetString("difficulty")
		langFlag, _ := cmd.Flags().GetString("languages")
		count, _ := cmd.Flags().GetInt("count")
		out, _ := cmd.Flags().GetString("out")
		doImport, _ := cmd.Flags().GetBool("import")

		if out == "" && !doImport {
			return errors.New("nothing to do: pass --out, --import or both")
		}
		diff, err := vocab.ParseDifficulty(diffFlag)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, loadConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()
		catalog := st.CatalogRepo()

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), slog.Default())
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		req := wordgen.Request{
			Domain:     vocab.Domain{Code: strings.ToUpper(domainCode)},
			Difficulty: diff,
			Count:      count,
		}
		if req.Domain, err = lookupDomain(cmd, catalog, req.Domain.Code); err != nil {
			return err
		}
		if req.Languages, err = lookupLanguages(cmd, catalog, langFlag); err != nil {
			return err
		}
		known, err := catalog.Words(ctx, req.Domain.Code)
		if err != nil {
			return fmt.Errorf("list words: %w", err)
		}
		for _, w := range known {
			req.Exclude = append(req.Exclude, w.Concept)
		}

		fmt.Printf("Generating %d %s words for %s with %s...\n",
			count, strings.ToLower(diff.Label()), req.Domain.Name, provider.ModelID())
		wl, err := wordgen.New(provider, wordgen.DefaultConfig()).Generate(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Got %d new words.\n", len(wl.Words))

		if out != "" {
			b, err := json.MarshalIndent(wl, "", "  ")
			if err != nil {
				return fmt.Errorf("encode word list: %w", err)
			}
			if err := os.WriteFile(out, append(b, '\n'), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
		}
		if doImport {
			stats, err := catalog.ImportWords(ctx, wl)
			if err != nil {
				return fmt.Errorf("import words: %w", err)
			}
			printImportStats(stats)
		}
		return nil
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List words in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		domain = strings.ToUpper(domain)
		if domain == vocab.AllDomains {
			domain = ""
		}

		st, err := openStore(cmd.Context(), loadConfig(cmd))
		if err != nil {
			return err
		}
		defer st.Close()

		words, err := st.CatalogRepo().Words(cmd.Context(), domain)
		if err != nil {
			return fmt.Errorf("list words: %w", err)
		}
		if len(words) == 0 {
			fmt.Println("No words found.")
			return nil
		}

		fmt.Printf("%-20s  %-12s  %-6s  %s\n", "Concept", "Domain", "Level", "Translations")
		fmt.Println(strings.Repeat("─", 80))
		for _, w := range words {
			var parts []string
			for _, t := range w.Translations {
				parts = append(parts, t.Language+":"+t.Text)
			}
			fmt.Printf("%-20s  %-12s  %-6s  %s\n",
				truncate(w.Concept, 20), truncate(w.Domain, 12), w.Difficulty.Label(), strings.Join(parts, "  "))
		}
		fmt.Printf("\n%d words\n", len(words))
		return nil
	},
}

func printImportStats(s store.ImportStats) {
	fmt.Printf("Imported %d words, %d translations, %d languages, %d domains.\n",
		s.Words, s.Translations, s.Languages, s.Domains)
}

// lookupDomain returns the catalog entry for code, or a new domain named
// after the code.
func lookupDomain(cmd *cobra.Command, catalog store.CatalogRepo, code string) (vocab.Domain, error) {
	if code == "" || code == vocab.AllDomains {
		return vocab.Domain{}, errors.New("--domain is required and must name one domain")
	}
	domains, err := catalog.Domains(cmd.Context())
	if err != nil {
		return vocab.Domain{}, fmt.Errorf("list domains: %w", err)
	}
	for _, d := range domains {
		if d.Code == code {
			return d, nil
		}
	}
	fmt.Fprintf(os.Stderr, "warning: domain %s is new to the catalog\n", code)
	return vocab.Domain{Code: code}, nil
}

func lookupLanguages(cmd *cobra.Command, catalog store.CatalogRepo, csv string) ([]vocab.Language, error) {
	known, err := catalog.Languages(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	byCode := make(map[string]vocab.Language, len(known))
	for _, l := range known {
		byCode[l.Code] = l
	}

	var langs []vocab.Language
	for _, code := range strings.Split(csv, ",") {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		l, ok := byCode[code]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: language %s is new to the catalog\n", code)
			l = vocab.Language{Code: code}
		}
		langs = append(langs, l)
	}
	return langs, nil
}

func init() {
	wordsGenerateCmd.Flags().StringP("domain", "d", "", "Domain code, e.g. ANIMALS")
	wordsGenerateCmd.Flags().String("difficulty", string(vocab.Easy), "EASY, MEDIUM or HARD")
	wordsGenerateCmd.Flags().StringP("languages", "l", "en,es", "Comma-separated language codes")
	wordsGenerateCmd.Flags().IntP("count", "n", 10, fmt.Sprintf("Number of words (1-%d)", wordgen.MaxCount))
	wordsGenerateCmd.Flags().StringP("out", "o", "", "Write the word list to this file")
	wordsGenerateCmd.Flags().Bool("import", false, "Import the generated words into the catalog")

	wordsListCmd.Flags().StringP("domain", "d", "", "Only list this domain")

	wordsCmd.AddCommand(wordsImportCmd)
	wordsCmd.AddCommand(wordsGenerateCmd)
	wordsCmd.AddCommand(wordsListCmd)
}
