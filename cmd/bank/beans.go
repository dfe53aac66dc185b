package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xraph/beans"
)

// NewBeansCommand creates the beans command.
func NewBeansCommand(opts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "beans",
		Short: "List the beans of the application context",
		Long: `List every bean in registration order with its source, stereotype,
proxy strategy, transactional methods and injected dependencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			infos, err := a.inspect()
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, infos)
			}

			return printBeansTable(cmd, infos)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func printBeansTable(cmd *cobra.Command, infos []beans.BeanInfo) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSOURCE\tROLE\tSTRATEGY\tTRANSACTIONAL\tDEPENDS ON")

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name,
			info.Type,
			info.Source,
			orDash(string(info.Role)),
			info.Strategy,
			transactional(info),
			orDash(strings.Join(info.Dependencies, ",")),
		)
	}

	return w.Flush()
}

func transactional(info beans.BeanInfo) string {
	switch {
	case !info.Transactional:
		return "-"
	case len(info.Methods) == 0:
		return "all"
	default:
		return strings.Join(info.Methods, ",")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
