package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/helix-lang/helix/core/keywords"
)

func newKeywordsCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "keywords [name]",
		Short: "List Helix keywords or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return describeKeyword(a, args[0])
			}

			list := keywords.All()
			if category != "" {
				list = keywords.ByCategory(keywords.Category(category))
				if len(list) == 0 {
					return &CLIError{
						Message: fmt.Sprintf("unknown keyword category %q", category),
						Hint:    "categories are listed in the CATEGORY column of `helix keywords`",
					}
				}
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tSCOPED\tBODY")
			for _, kw := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", kw.Name, kw.Category, yesNo(kw.Scoped), yesNo(kw.BodyRequired))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list keywords in this category")
	return cmd
}

func describeKeyword(a *app, name string) error {
	kw, ok := keywords.Lookup(name)
	if !ok {
		err := &CLIError{Message: fmt.Sprintf("%q is not a Helix keyword", name)}
		if suggestions := keywords.Suggest(name, 3); len(suggestions) > 0 {
			err.Hint = "did you mean " + strings.Join(suggestions, ", ") + "?"
		}
		return err
	}

	fmt.Fprintf(a.stdout, "keyword:       %s\n", kw.Name)
	fmt.Fprintf(a.stdout, "category:      %s\n", kw.Category)
	fmt.Fprintf(a.stdout, "scoped:        %s\n", yesNo(kw.Scoped))
	fmt.Fprintf(a.stdout, "body required: %s\n", yesNo(kw.BodyRequired))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
