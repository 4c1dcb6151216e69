// Package commands implements the easystore CLI.
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/easystore"
	"github.com/hupe1980/easystore/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type app struct {
	configPath  string
	disk        string
	logErrors   bool
	throwErrors bool

	cfg   *config.Config
	store *easystore.Dispatcher
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "easystore",
		Short: "Work with files on local and cloud disks",
		Long: `easystore dispatches file operations to named disks: local directories,
Amazon S3, S3-compatible stores such as MinIO, and Google Cloud Storage.

Example configuration (easystore.yaml):
  default: local
  log_errors: true
  disks:
    local:
      driver: local
      root: storage/app
    s3:
      driver: s3
      bucket: ${AWS_BUCKET}
      region: ${AWS_DEFAULT_REGION}`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVarP(&a.disk, "disk", "d", "", "disk to use instead of the configured default")
	flags.BoolVar(&a.logErrors, "log-errors", false, "log failed operations")
	flags.BoolVar(&a.throwErrors, "throw-errors", false, "report failed operations as errors")

	root.AddCommand(
		a.uploadCmd(),
		a.downloadCmd(),
		a.putCmd(),
		a.catCmd(),
		a.urlCmd(),
		a.tempURLCmd(),
		a.rmCmd(),
		a.existsCmd(),
		a.statCmd(),
		a.setMetaCmd(),
		a.mimeCmd(),
		a.pathCmd(),
		a.lsCmd(),
		a.cpCmd(),
		a.mvCmd(),
		a.appendCmd(),
		a.prependCmd(),
		a.mkdirCmd(),
		a.rmdirCmd(),
		a.disksCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-errors") {
		cfg.LogErrors = a.logErrors
	}
	if flags.Changed("throw-errors") {
		cfg.ThrowErrors = a.throwErrors
	}

	registry, err := cfg.Open(cmd.Context())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.store = easystore.New(registry, cfg.Options()...)
	if a.disk != "" {
		a.store = a.store.OnDisk(a.disk)
	}
	return nil
}
