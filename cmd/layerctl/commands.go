package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/layersearch/internal/app"
	"github.com/kailas-cloud/layersearch/internal/domain/layer"
	"github.com/kailas-cloud/layersearch/internal/domain/record"
	"github.com/kailas-cloud/layersearch/internal/domain/search/result"
	domscope "github.com/kailas-cloud/layersearch/internal/domain/search/scope"
	"github.com/kailas-cloud/layersearch/internal/usecase/export"
	"github.com/kailas-cloud/layersearch/internal/usecase/viewer"
)

var (
	heading = color.New(color.FgGreen, color.Bold)
	count   = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
	faint   = color.New(color.Faint)
)

func newLayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List the layer catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeApp, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			printEntries(cmd.OutOrStdout(), a.Catalog.Entries(), "")
			return nil
		},
	}
}

func printEntries(w io.Writer, entries []layer.Entry, indent string) {
	for _, e := range entries {
		if e.IsGroup() {
			heading.Fprintf(w, "%s%s", indent, e.Title())
			faint.Fprintf(w, " [%s]\n", e.Ref())
			printEntries(w, e.Children(), indent+"  ")
			continue
		}
		fmt.Fprintf(w, "%s%s", indent, e.Title())
		faint.Fprintf(w, " [%s] table=%s\n", e.Ref(), e.Table())
	}
}

// searchFlags are shared by search and export.
type searchFlags struct {
	scope  string
	wheres []string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "all", `layers to search: all, region:<name> or collection:<name>`)
	cmd.Flags().StringArrayVarP(&f.wheres, "where", "w", nil,
		`criterion "[and|or] <field> <operator> <value>", repeatable`)
}

func (f *searchFlags) run(cmd *cobra.Command, a *app.App) (*result.SearchResult, error) {
	sel, err := domscope.Parse(f.scope)
	if err != nil {
		return nil, err
	}
	model, err := buildCriteria(f.wheres)
	if err != nil {
		return nil, err
	}
	res, err := a.Search.Search(cmd.Context(), model.List(), sel, 1)
	if err != nil {
		return nil, err
	}
	for _, fl := range res.Failures() {
		failure.Fprintf(cmd.ErrOrStderr(), "layer %s (%s) failed: %v\n", a.Resolver.Title(fl.Ref), fl.Ref, fl.Err)
	}
	return res, nil
}

func newSearchCmd() *cobra.Command {
	var (
		sf     searchFlags
		page   int
		size   int
		filter string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every layer in scope and print one page of matches",
		Example: `  layerctl search --scope region:Downtown -w "name contains oak" -w "or area greater 10"
  layerctl search -w "kind equals forest" --page 2 --size 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeApp, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			res, err := sf.run(cmd, a)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			heading.Fprintf(w, "%d matches", res.Total())
			fmt.Fprintf(w, " in %d layers (search %s)\n", len(res.Collections()), res.ID())
			per := res.PerCollection()
			for _, ref := range res.Collections() {
				fmt.Fprintf(w, "  %-30s ", a.Resolver.Title(ref))
				count.Fprintf(w, "%d\n", per[ref])
			}

			v := viewer.New(size)
			v.SetAggregate(res)
			if filter != "" {
				v.Filter(filter)
			}
			v.GoTo(page)
			printPage(w, v, a.Resolver.Title)
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page to print")
	cmd.Flags().IntVar(&size, "size", 10, "records per page")
	cmd.Flags().StringVar(&filter, "filter", "", "only show records with a value containing this text")
	return cmd
}

func printPage(w io.Writer, v *viewer.Viewer, title export.TitleFunc) {
	p := v.Page()
	fmt.Fprintln(w)
	heading.Fprintf(w, "Page %d/%d", p.Index, max(p.TotalPages, 1))
	fmt.Fprintf(w, " (%d visible)\n", v.VisibleCount())

	for _, rec := range v.Visible() {
		faint.Fprintf(w, "[%s] ", title(rec.Origin()))
		keys := export.Header(rec)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			val, _ := rec.Attribute(k)
			pairs[i] = k + "=" + record.FormatValue(val)
		}
		fmt.Fprintln(w, strings.Join(pairs, " "))
	}
}

func newValuesCmd() *cobra.Command {
	var (
		scope     string
		fieldName string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "values",
		Short: "List distinct values of a field across the layers in scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeApp, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			sel, err := domscope.Parse(scope)
			if err != nil {
				return err
			}
			refs, err := a.Resolver.Resolve(cmd.Context(), sel)
			if err != nil {
				return err
			}
			for _, v := range a.Sampler.Sample(cmd.Context(), refs, fieldName, limit) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "all", "layers to sample")
	cmd.Flags().StringVarP(&fieldName, "field", "f", "", "field name")
	cmd.Flags().IntVar(&limit, "cap", 0, "maximum number of values (default from config)")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		sf     searchFlags
		title  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Search and write every match as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeApp, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			res, err := sf.run(cmd, a)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			opts := export.Options{Title: title, Date: time.Now(), Titles: a.Resolver.Title}
			if err := a.Exporter.Write(w, res, opts); err != nil {
				return err
			}
			if output != "" && output != "-" {
				count.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", res.Total(), output)
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "title line written before the data")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
