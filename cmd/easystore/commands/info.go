package commands

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/hupe1980/easystore/disk"
	"github.com/spf13/cobra"
)

func (a *app) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Show size, modification time, MIME type and attributes of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := a.store.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if md == nil {
				return errFailed
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Path:\t%s\n", disk.Clean(args[0]))
			fmt.Fprintf(w, "Size:\t%s (%d bytes)\n", humanize.IBytes(uint64(md.Size)), md.Size)
			if !md.LastModified.IsZero() {
				fmt.Fprintf(w, "Modified:\t%s (%s)\n", md.LastModified.Format("2006-01-02 15:04:05"), humanize.Time(md.LastModified))
			}
			if md.MimeType != "" {
				fmt.Fprintf(w, "MIME type:\t%s\n", md.MimeType)
			}
			if md.ETag != "" {
				fmt.Fprintf(w, "ETag:\t%s\n", md.ETag)
			}
			keys := make([]string, 0, len(md.Attributes))
			for k := range md.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s:\t%s\n", k, md.Attributes[k])
			}
			return w.Flush()
		},
	}
}

func (a *app) setMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-meta <path> <key=value>...",
		Short: "Replace the user attributes of a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := make(map[string]string, len(args)-1)
			for _, kv := range args[1:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid attribute %q, want key=value", kv)
				}
				attrs[k] = v
			}
			return check(a.store.SetMetadata(cmd.Context(), args[0], attrs))
		},
	}
}

func (a *app) mimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mime <path>",
		Short: "Print the MIME type of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := a.store.MimeType(cmd.Context(), args[0])
			return printString(cmd, mt, err)
		},
	}
}

func (a *app) pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <path>",
		Short: "Print the host path of a file on a local disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.Path(cmd.Context(), args[0])
			return printString(cmd, p, err)
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List the files directly inside a directory",
		Long: `List the files directly inside a directory.

--match filters by file name with glob syntax, including {a,b} alternatives.

Examples:
  easystore ls reports
  easystore ls assets --match '*.{png,jpg}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" && !doublestar.ValidatePattern(match) {
				return fmt.Errorf("invalid pattern %q", match)
			}

			var dir string
			if len(args) > 0 {
				dir = args[0]
			}
			files, err := a.store.Files(cmd.Context(), dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				if match != "" {
					ok, err := doublestar.Match(match, path.Base(f))
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "glob pattern for file names")
	return cmd
}

func (a *app) disksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disks",
		Short: "List configured disks and their operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := a.store.Registry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDRIVER\tOPERATIONS")
			for _, name := range registry.Names() {
				d, err := registry.Get(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == a.store.DefaultDisk() {
					marker = "*"
				}
				ops := make([]string, 0, len(disk.AllOps))
				for _, op := range disk.Capabilities(d) {
					ops = append(ops, op.String())
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\n", name, marker, a.cfg.Disks[name].Driver, strings.Join(ops, ","))
			}
			return w.Flush()
		},
	}
}
