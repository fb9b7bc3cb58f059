package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/larserikfagernaes/spendmatch/internal/cli"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
	"github.com/larserikfagernaes/spendmatch/internal/profile"
)

func suppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Inspect and manage suppliers",
	}

	cmd.AddCommand(suppliersListCmd())
	cmd.AddCommand(suppliersAddCmd())

	return cmd
}

func suppliersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List suppliers and their matching profiles",
		RunE:  runSuppliersList,
	}
	cmd.Flags().Int("min-examples", 2, "minimum labeled examples to keep a supplier profile")
	return cmd
}

func runSuppliersList(cmd *cobra.Command, _ []string) error {
	minExamples, _ := cmd.Flags().GetInt("min-examples")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	suppliers, err := store.GetSuppliers(ctx)
	if err != nil {
		return err
	}
	labeled, err := store.GetLabeledTransactions(ctx)
	if err != nil {
		return err
	}

	opts := profile.DefaultOptions()
	if minExamples > 0 {
		opts.MinExamples = minExamples
	}
	profiles := profile.NewBuilder(normalize.New(normalize.DefaultConfig()), opts).Build(labeled, suppliers)

	byID := make(map[string]*model.SupplierProfile, len(profiles))
	for _, p := range profiles {
		byID[p.SupplierID] = p
	}

	fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Suppliers (%d, %d with profiles)", len(suppliers), len(profiles))))
	header := fmt.Sprintf("%-30s %10s %10s  %s", "NAME", "EXAMPLES", "TERMS", "CATEGORY")
	fmt.Fprintln(os.Stdout, cli.TableHeaderStyle.Render(header))

	for _, s := range suppliers {
		p, ok := byID[s.ID]
		if !ok {
			fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(fmt.Sprintf("%-30s %10s", s.Name, "(no profile)")))
			continue
		}
		fmt.Fprintf(os.Stdout, "%-30s %10d %10d  %s\n", s.Name, len(p.Examples), len(p.Terms), p.CategoryID)
	}
	return nil
}

func suppliersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register a supplier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveSupplier(ctx, &model.Supplier{ID: args[0], Name: args[1]}); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("Saved supplier "+args[1]))
			return nil
		},
	}
	return cmd
}
