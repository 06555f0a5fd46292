package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-webtempl/internal/logger"
	"github.com/goliatone/go-webtempl/pkg/host"
	"github.com/goliatone/go-webtempl/pkg/settings"
	"github.com/goliatone/go-webtempl/pkg/templ"
	"github.com/goliatone/go-webtempl/pkg/templ/pongo"
)

type globalFlags struct {
	ext       string
	env       string
	envFiles  []string
	resources string
	workDir   string
	logLevel  string
}

// level returns the --log-level flag, falling back to the log level setting
// so it can come from the environment or a dotenv file.
func (f *globalFlags) level() string {
	if f.logLevel != "" {
		return f.logLevel
	}
	return settings.GetOr(settings.LogLevelKey, "info")
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "webtempl",
		Short:         "Render pongo2 templates from the terminal or over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.LoadDotEnv(flags.envFiles...); err != nil {
				return err
			}
			if flags.env != "" {
				settings.Set(settings.EnvironmentKey, flags.env)
			}
			return nil
		},
	}

	registerGlobalFlags(root.PersistentFlags(), flags)

	root.AddCommand(
		newRenderCmd(flags),
		newServeCmd(flags),
	)
	return root
}

func registerGlobalFlags(fs *pflag.FlagSet, flags *globalFlags) {
	fs.StringVar(&flags.ext, "ext", templ.DefaultExtension, "template extension appended when missing")
	fs.StringVar(&flags.env, "env", "", "runtime mode (development disables the template cache)")
	fs.StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load before running")
	fs.StringVar(&flags.resources, "resources", "", "directory searched before the working directory")
	fs.StringVar(&flags.workDir, "workdir", "", "directory relative template paths resolve against")
	fs.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to WEBTEMPL_LOG_LEVEL or info")
}

func newEngine(flags *globalFlags, options ...pongo.Option) (*pongo.Engine, error) {
	opts := []host.Option{
		host.WithLogger(logger.New(flags.level())),
		host.WithWorkDir(flags.workDir),
	}
	if flags.resources != "" {
		opts = append(opts, host.WithResources(os.DirFS(flags.resources)))
	}

	h, err := host.New(opts...)
	if err != nil {
		return nil, err
	}
	return pongo.NewWithExtension(h, flags.ext, options...)
}
