package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xraph/go-utils/log"
)

// NewTransferCommand creates the transfer command.
func NewTransferCommand(opts *RootOptions) *cobra.Command {
	var (
		from   string
		to     string
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		Long: `Move money between two accounts in one transaction. Either both
balances change or neither does.`,
		Example: `  bank transfer --from 6029621011000 --to 6029621011001 --amount 100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if err := a.transfer(ctx, from, to, amount); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "transferred %d from %s to %s\n", amount, from, to)

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "payer card number")
	cmd.Flags().StringVar(&to, "to", "", "receiver card number")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to move")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

var errSameAccount = errors.New("payer and receiver are the same account")

// transfer moves the money and records the outcome in the audit log. The
// audit entry runs in its own transaction after the transfer has finished.
func (a *app) transfer(ctx context.Context, from, to string, amount int64) error {
	if from == to {
		return errSameAccount
	}

	err := a.transfers().Transfer(ctx, from, to, amount)

	action := "transfer"
	detail := fmt.Sprintf("%s -> %s: %d", from, to, amount)
	if err != nil {
		action = "transfer-failed"
		detail += " (" + err.Error() + ")"
	}

	if auditErr := a.audit().Record(ctx, action, detail); auditErr != nil {
		a.logger.Warn("audit record failed", log.Error(auditErr))
	}

	return err
}
