package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/lyrics"
)

func newImportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "import <url>",
		Short:   "Convert a chord page from amdm.ru to a hibiki sheet",
		Example: "  hibiki import https://amdm.ru/akkordi/kino/99718/kukushka/ -o kukushka.txt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := lyrics.NewService(nil, nil, nil)

			result, err := service.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := writeOutput(cmd, output, result.Text); err != nil {
				return err
			}
			if output != "" {
				logger.Success(fmt.Sprintf("saved %s (%d chars) to %s", result.URL, len(result.Text), output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
