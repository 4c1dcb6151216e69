package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/easystore"
	"github.com/spf13/cobra"
)

// errFailed is reported when the failure policy swallowed an error.
var errFailed = errors.New("operation failed (rerun with --throw-errors or --log-errors for details)")

func check(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	return nil
}

func (a *app) uploadCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "upload <local-file> [dir]",
		Short: "Upload a file, adding a numeric suffix when the name is taken",
		Long: `Upload a local file into a directory of the disk.

Without --as, an existing file is never overwritten: report.pdf becomes
report_1.pdf, report_2.pdf and so on. With --as, the file is stored under
the given name and replaces any existing file.

Examples:
  easystore upload ./report.pdf reports
  easystore -d s3 upload ./logo.png assets --as logo.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			var dir string
			if len(args) > 1 {
				dir = args[1]
			}
			file := easystore.File{Name: filepath.Base(args[0]), Body: f}

			var stored string
			if as != "" {
				stored, err = a.store.UploadAs(cmd.Context(), file, dir, as)
			} else {
				stored, err = a.store.Upload(cmd.Context(), file, dir)
			}
			if err := check(stored != "", err); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stored)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "store under this name, replacing an existing file")
	return cmd
}

func (a *app) downloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <path>",
		Short: "Download a file",
		Long: `Download a file from the disk.

The file is written to the current directory under its own name, to the
path given with -o, or to stdout with -o -.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := a.store.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if dl == nil {
				return errFailed
			}
			defer func() { _ = dl.Body.Close() }()

			if output == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), dl.Body)
				return err
			}
			if output == "" {
				output = dl.Name
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, dl.Body); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) -> %s\n", dl.Path, dl.MimeType, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	return cmd
}

func (a *app) putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <path> <local-file|->",
		Short: "Write a file from a local file or stdin, replacing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return err
			}
			return check(a.store.Put(cmd.Context(), args[0], data))
		},
	}
}

func (a *app) catCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if data == nil {
				return errFailed
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (a *app) urlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <path>",
		Short: "Print the public URL of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.store.URL(cmd.Context(), args[0])
			return printString(cmd, url, err)
		},
	}
}

func (a *app) tempURLCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "temp-url <path>",
		Short: "Print a URL that expires after --ttl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.store.TemporaryURL(cmd.Context(), args[0], ttl)
			return printString(cmd, url, err)
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "lifetime of the URL")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.Delete(cmd.Context(), args[0]))
		},
	}
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Print true when the file or directory exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.store.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func (a *app) cpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.Copy(cmd.Context(), args[0], args[1]))
		},
	}
}

func (a *app) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.Move(cmd.Context(), args[0], args[1]))
		},
	}
}

func (a *app) appendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append <path> <text>",
		Short: "Append a line to a file, creating it when missing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.Append(cmd.Context(), args[0], args[1]))
		},
	}
}

func (a *app) prependCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepend <path> <text>",
		Short: "Prepend a line to a file, creating it when missing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.Prepend(cmd.Context(), args[0], args[1]))
		},
	}
}

func (a *app) mkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.MakeDirectory(cmd.Context(), args[0]))
		},
	}
}

func (a *app) rmdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a directory and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(a.store.DeleteDirectory(cmd.Context(), args[0]))
		},
	}
}

func printString(cmd *cobra.Command, s string, err error) error {
	if err := check(s != "", err); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
