package main

import (
	"github.com/spf13/cobra"
	"github.com/xraph/beans/examples/bank"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "balance [card-no]",
		Short: "Show the balance of an account",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			p := message.NewPrinter(language.English)

			if all {
				accounts, err := a.accounts().ListAccounts(ctx)
				if err != nil {
					return err
				}
				for i := range accounts {
					printAccount(cmd, p, &accounts[i])
				}
				return nil
			}

			account, err := a.transfers().Balance(ctx, args[0])
			if err != nil {
				return err
			}
			printAccount(cmd, p, account)

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every account")

	return cmd
}

func printAccount(cmd *cobra.Command, p *message.Printer, a *bank.Account) {
	p.Fprintf(cmd.OutOrStdout(), "%s %s: %d\n", a.CardNo, a.Name, a.Money)
}
