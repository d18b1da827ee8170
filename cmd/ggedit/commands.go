package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggedit"
)

type appRunner func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

// parseSets applies "kind=value" assignments to a default state.
func parseSets(sets []string) (ggedit.State, error) {
	s := ggedit.NewState()
	for _, set := range sets {
		k, v, ok := strings.Cut(set, "=")
		if !ok {
			return s, fmt.Errorf("--set %q: want kind=value", set)
		}
		i, found := ggedit.LookupKind(k)
		if !found {
			return s, fmt.Errorf("--set %q: unknown filter %q", set, k)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimRight(v, "%degpx")), 64)
		if err != nil {
			return s, fmt.Errorf("--set %q: %w", set, err)
		}
		if s, err = s.SetValue(i, f); err != nil {
			return s, err
		}
	}
	return s, nil
}

func filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tKIND\tDEFAULT\tRANGE")
			for i, spec := range ggedit.Defaults() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%g%s\t%g..%g%s\n",
					i, spec.Name, spec.Kind, spec.Default, spec.Unit, spec.Range.Min, spec.Range.Max, spec.Unit)
			}
			return w.Flush()
		},
	}
}

func compileCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the CSS filter value for a set of adjustments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := parseSets(sets)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ggedit.Compile(s).String())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "filter adjustment as kind=value, repeatable (e.g. --set brightness=150)")
	return cmd
}

func exportCmd(withApp appRunner) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Apply adjustments to an image and export it as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			state, err := parseSets(sets)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := a.session.Upload(ctx, filepath.Base(args[0]), f); err != nil {
				return err
			}
			for i, f := range state.Filters() {
				if err := a.session.SetFilter(i, f.Value); err != nil {
					return err
				}
			}

			entry, err := a.session.Export(ctx)
			if err != nil {
				return err
			}

			out := filepath.Join(a.cfg.DownloadDir, ggedit.DefaultExportName)
			size := "?"
			if st, err := os.Stat(out); err == nil {
				size = humanize.Bytes(uint64(st.Size()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s -> %s (%s)\nfilter: %s\nhandle: %s\n",
				args[0], out, size, a.session.Transform().String(), entry.Edited)
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "filter adjustment as kind=value, repeatable")
	return cmd
}

func galleryCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "gallery",
		Short: "List uploads and exports",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			entries, err := a.session.Gallery(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "gallery is empty")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tORIGINAL\tEDITED\tCREATED")
			for i, e := range entries {
				edited := string(e.Edited)
				if edited == "" {
					edited = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, e.Original, edited, humanize.Time(e.CreatedAt))
			}
			return w.Flush()
		}),
	}
}

func viewCmd(withApp appRunner) *cobra.Command {
	var next, prev int
	cmd := &cobra.Command{
		Use:   "view <index>",
		Short: "Open the gallery viewer at an entry and step through it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[0], err)
			}
			if err := a.session.OpenEntry(cmd.Context(), i); err != nil {
				return err
			}
			for range next {
				a.session.NextEntry()
			}
			for range prev {
				a.session.PreviousEntry()
			}
			v := a.session.Viewer()
			e, _ := v.Displayed()
			fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\noriginal: %s\n", v.Index()+1, v.Len(), v.DisplayHandle(), e.Original)
			return nil
		}),
	}
	cmd.Flags().IntVar(&next, "next", 0, "advance n entries")
	cmd.Flags().IntVar(&prev, "prev", 0, "go back n entries")
	return cmd
}
