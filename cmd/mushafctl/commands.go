package main

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/mushaf-bot/internal/answer"
	"github.com/aliskhannn/mushaf-bot/internal/arabic"
	"github.com/aliskhannn/mushaf-bot/internal/config"
	"github.com/aliskhannn/mushaf-bot/internal/highlight"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres"
	"github.com/aliskhannn/mushaf-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mushaf-bot/internal/logger"
	"github.com/aliskhannn/mushaf-bot/internal/service"
	"github.com/aliskhannn/mushaf-bot/internal/storage"
)

var version = "dev"

// terminal marks highlighted fragments in plain text output.
var terminal = highlight.Highlighter{
	Marker: highlight.Marker{Open: "[", Close: "]"},
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mushafctl",
		Short: "Maintenance tools for the mushaf bot",
		Long: `mushafctl imports the verse corpus and exposes the Arabic text tools
used by the bot and the API.

  mushafctl import --csv assets/quran.csv
  mushafctl normalize "بِسْمِ ٱللَّهِ"
  mushafctl highlight "ذَٰلِكَ ٱلْكِتَٰبُ" "الكتاب"
  mushafctl match --kind continuation "الحمد لله" "الحمد لله رب العالمين"`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newImportCmd(),
		newNormalizeCmd(),
		newHighlightCmd(),
		newMatchCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mushafctl version %s\n", version)
		},
	}
}

func newNormalizeCmd() *cobra.Command {
	var forAnswer bool

	cmd := &cobra.Command{
		Use:   "normalize TEXT",
		Short: "Print the normalized form of Arabic text",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			n := arabic.Search
			if forAnswer {
				n = arabic.Answer
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.Normalize(args[0]))
		},
	}
	cmd.Flags().BoolVarP(&forAnswer, "answer", "a", false, "apply the quiz answer spelling fixups")

	return cmd
}

func newHighlightCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "highlight TEXT QUERY",
		Short: "Mark where QUERY occurs in TEXT, ignoring diacritics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, query := args[0], args[1]

			var out string
			if all {
				out = terminal.RenderAll(text, query)
			} else {
				out = terminal.Render(text, query)
			}
			if out == text {
				return fmt.Errorf("%q not found", query)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "mark every occurrence")

	return cmd
}

func newMatchCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "match USER_ANSWER CORRECT_ANSWER",
		Short: "Check a quiz answer the way the bot does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}

			ok, err := answer.Matcher{}.MatchKind(args[0], args[1], k)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", answer.FreeformContinuation.String(),
		"answer kind: multiple_choice, continuation or freeform")

	return cmd
}

func parseKind(s string) (answer.Kind, error) {
	for _, k := range []answer.Kind{answer.MultipleChoiceLiteral, answer.FreeformContinuation, answer.FreeformOther} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", answer.ErrUnknownKind, s)
}

func newImportCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import verses from a CSV file into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.Corpus.CSVPath
			}

			dsn, err := cfg.DB.DSN()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()

			pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()

			tr := postgres.NewTransactor(pool)
			if err := postgres.Migrate(ctx, pool, tr, log); err != nil {
				return err
			}

			corpus := service.NewCorpusService(
				repository.NewVerseRepository(pool),
				tr,
				func(tx pgx.Tx) service.VerseWriter { return repository.NewVerseRepository(tx) },
				storage.NewCorpusStore(),
				log,
			)

			report, err := corpus.ImportFile(ctx, csvPath)
			if err != nil {
				return err
			}
			log.Info("corpus imported", zap.String("path", csvPath), zap.Int64("upserted", report.Upserted))

			fmt.Fprintf(cmd.OutOrStdout(), "read %d verses, upserted %d, skipped %d\n", report.Read, report.Upserted, len(report.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "path to the corpus CSV (defaults to corpus.csv_path)")

	return cmd
}
