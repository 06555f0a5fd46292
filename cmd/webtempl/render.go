package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		contextFile string
		output      string
		vars        map[string]string
	)

	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template to stdout or a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					return fmt.Errorf("render: template path is required")
				}
				prompted, err := promptTemplatePath(cmd.Context())
				if err != nil {
					return err
				}
				name = prompted
			}

			data, err := loadContext(contextFile)
			if err != nil {
				return err
			}
			for k, v := range vars {
				data[k] = v
			}

			engine, err := newEngine(flags)
			if err != nil {
				return err
			}

			out, err := engine.Render(cmd.Context(), data, name).Await(cmd.Context())
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
					return fmt.Errorf("render: write output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Template written to %s\n", output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contextFile, "context", "c", "", "YAML or JSON file with template data")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringToStringVar(&vars, "set", nil, "extra key=value pairs merged over the context file")
	return cmd
}
