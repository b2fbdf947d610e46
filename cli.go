package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/wordrecall/internal/ai"
	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/excel"
	"github.com/example/wordrecall/internal/review"
	"github.com/example/wordrecall/internal/spaced_repetition"
	"github.com/example/wordrecall/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// withApp opens the app for the duration of a command
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return explain(fn(ctx, a))
}

// explain adds a hint for errors the user can act on
func explain(err error) error {
	if err == nil {
		return nil
	}
	if review.IsRetryable(err) {
		return fmt.Errorf("%w (concurrent update, run the command again)", err)
	}
	if step, ok := review.FailedStep(err); ok && step != review.StepLoadWord && step != review.StepLoadScheduleWord {
		return fmt.Errorf("%w (run \"repair\" if counters look wrong)", err)
	}
	return err
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user profiles",
	}

	var chatID int64
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user := &models.UserProfile{Name: args[0], ChatID: chatID}
				if err := a.repo.CreateUserProfile(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.ID, user.Name)
				return nil
			})
		},
	}
	add.Flags().Int64Var(&chatID, "chat-id", 0, "Telegram chat that receives reminders")

	list := &cobra.Command{
		Use:   "list",
		Short: "List user profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				users, err := a.repo.ListUserProfiles(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCHAT")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%d\n", u.ID, u.Name, u.ChatID)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func collectCmd() *cobra.Command {
	var (
		definition string
		define     bool
	)

	cmd := &cobra.Command{
		Use:   "collect [user-id] [word]",
		Short: "Collect a word and schedule its first review for today",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.Join(args[1:], " ")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if define && definition == "" {
					definition = lookupDefinition(ctx, a, word)
				}

				w, sw, err := a.service().CollectWord(ctx, review.NewWord{
					UserProfileID: args[0],
					Word:          word,
					Definition:    definition,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collected %q as %s, review %s\n", w.Word, w.ID, sw.ID)
				if w.Definition != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Definition: %s\n", w.Definition)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&definition, "definition", "d", "", "definition to store with the word")
	cmd.Flags().BoolVar(&define, "define", false, "look the definition up with OpenAI")
	return cmd
}

func wordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words [user-id]",
		Short: "List the user's collected words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				words, err := a.service().ListWords(ctx, args[0])
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tWORD\tSTATUS\tINTERVAL\tEASE")
				for _, word := range words {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n",
						word.ID, word.Word, word.Status, word.ReviewInterval, word.EaseFactor)
				}
				return w.Flush()
			})
		},
	}
}

func learnedCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "learned [word-id]",
		Short: "Mark a word as learned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.WordLearned
			if undo {
				status = models.WordCollected
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.service().SetWordStatus(ctx, args[0], status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Word %s is now %s\n", args[0], status)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the word as collected again")
	return cmd
}

func lookupDefinition(ctx context.Context, a *app, word string) string {
	client, err := ai.New(ai.Config{APIKey: a.cfg.OpenAI.APIKey, Model: a.cfg.OpenAI.Model})
	if err != nil {
		a.log.Warn("definition lookup skipped", zap.Error(err))
		return ""
	}
	return client.DefineWithFallback(ctx, word, a.log)
}

func answerCmd() *cobra.Command {
	var score float64

	cmd := &cobra.Command{
		Use:   "answer [schedule-word-id] [poor|fair|good|excellent]",
		Short: "Record how well a word was recalled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recall, err := spaced_repetition.ParseRecall(args[1])
			if err != nil {
				return err
			}
			answer := review.Answer{ScheduleWordID: args[0], Recall: recall}
			if cmd.Flags().Changed("score") {
				answer.Score = &score
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.service().AnswerReview(ctx, answer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: next review %s (interval %d days, ease %.2f)\n",
					result.Word.Word, result.Review.NextDue, result.Review.ReviewInterval, result.Review.EaseFactor)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&score, "score", 0, "quiz score 0-100")
	return cmd
}

func uncollectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncollect [word-id]",
		Short: "Remove a word and its pending review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.service().UncollectWord(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uncollected %s\n", args[0])
				return nil
			})
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today [user-id]",
		Short: "List the words to review now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.service().TodayActiveSet(ctx, args[0])
				if err != nil {
					return err
				}
				if len(active) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to review.")
					return nil
				}
				return printActive(ctx, cmd.OutOrStdout(), a, active)
			})
		},
	}
}

func printActive(ctx context.Context, out io.Writer, a *app, active []models.ActiveScheduleWord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REVIEW\tWORD\tDUE\t")
	for _, item := range active {
		word, err := a.repo.GetWord(ctx, item.WordID)
		if err != nil {
			return err
		}
		due := item.ScheduleDate.String()
		if item.IfPastDue {
			due += " (past due)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", item.ID, word.Word, due)
	}
	return w.Flush()
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [user-id]",
		Short: "Show today's review state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				status, err := a.service().HomeStatus(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d remaining (%d past due), %d answered today\n",
					status.State, status.Remaining, status.PastDue, status.AnsweredToday)
				return nil
			})
		},
	}
}

func streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak [user-id]",
		Short: "Show consecutive fully reviewed days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				streak, err := a.service().Streak(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Streak: %d days\n", streak)
				return nil
			})
		},
	}
}

func reportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "report [user-id]",
		Short: "Show completion, accuracy and score for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				day := a.clock.Today()
				if date != "" {
					var err error
					if day, err = clock.ParseDate(date); err != nil {
						return err
					}
				}

				report, err := a.service().DailyReport(ctx, args[0], day)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d reviewed, completion %.0f%%, accuracy %.0f%%, score %d\n",
					report.Date, report.ReviewedCount, report.TotalWords, report.CompletionPct, report.AccuracyPct, report.Score)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to report, YYYY-MM-DD (default today)")
	return cmd
}

func importCmd() *cobra.Command {
	config := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import [user-id] [file]",
		Short: "Collect words from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.FilePath = args[1]
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := excel.NewImporter(a.service(), a.log).Import(ctx, args[0], config)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Processed %d rows: %d collected, %d skipped, %d failed\n",
					result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
				for _, e := range result.Errors {
					fmt.Fprintln(out, "  "+e)
				}
				if len(result.Errors) > 0 {
					return errors.New("some rows failed to import")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&config.SheetName, "sheet", "", "sheet to import (default first sheet)")
	cmd.Flags().StringVar(&config.WordColumn, "word-col", config.WordColumn, "column holding the word")
	cmd.Flags().StringVar(&config.DefinitionColumn, "definition-col", config.DefinitionColumn, "column holding the definition, empty for none")
	cmd.Flags().IntVar(&config.StartRow, "start-row", config.StartRow, "first row to import (1-based)")
	return cmd
}

func repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair [user-id]",
		Short: "Recompute schedule counters and re-enrol words left without a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.service().RepairUser(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Repaired %d schedules and words\n", n)
				return nil
			})
		},
	}
}
