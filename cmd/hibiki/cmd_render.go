package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/logger"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		breaks int
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render chord sheets to plain text (stdin when no file is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("breaks") {
				breaks = a.cfg.SectionBreaks
			}
			if breaks < 0 {
				return fmt.Errorf("--breaks must not be negative")
			}

			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				if watch {
					return fmt.Errorf("--watch needs at least one file")
				}
				source, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				rendered, err := hibiki.Render(string(source), breaks)
				if err != nil {
					return fmt.Errorf("<stdin>: %w", err)
				}
				return writeOutput(cmd, output, rendered)
			}

			rendered, err := renderFiles(cmd.Context(), args, breaks)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, rendered); err != nil {
				return err
			}

			if !watch {
				return nil
			}

			return watchFiles(cmd.Context(), args, watchDebounce, func() {
				rendered, err := renderFiles(cmd.Context(), args, breaks)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "hibiki: %v\n", err)
					return
				}
				if err := writeOutput(cmd, output, rendered); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "hibiki: %v\n", err)
					return
				}
				logger.Debug(fmt.Sprintf("re-rendered %s", strings.Join(args, ", ")))
			})
		},
	}

	cmd.Flags().IntVarP(&breaks, "breaks", "b", 0, "blank lines after each section (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "render again whenever a file changes")

	return cmd
}

// renderFiles renders paths concurrently and joins the results in argument
// order. The first failure cancels the rest.
func renderFiles(ctx context.Context, paths []string, breaks int) (string, error) {
	results := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			rendered, err := hibiki.Render(string(source), breaks)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = rendered
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(results, ""), nil
}

func writeOutput(cmd *cobra.Command, path, rendered string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), rendered)
		return err
	}
	return os.WriteFile(path, []byte(rendered), 0o644)
}
