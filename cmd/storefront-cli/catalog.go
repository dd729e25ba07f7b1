package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse products",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.catalog.List(a.context(cmd), category)
			if err != nil {
				a.printf("Could not load products.\n")
				return err
			}
			if len(products) == 0 {
				a.printf("No products found.\n")
				return nil
			}
			a.printProducts(products)
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", catalog.CategoryAll, "men, women, unisex or all")

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product with related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, related, err := a.catalog.Get(a.context(cmd), args[0])
			if errors.Is(err, catalog.ErrNotFound) {
				a.printf("Product not found.\n")
				return err
			}
			if err != nil {
				return err
			}

			a.printf("%s (%s)\n", p.Name, p.Category)
			if p.Description != "" {
				a.printf("%s\n", p.Description)
			}
			if p.Notes != "" {
				a.printf("Notes: %s\n", p.Notes)
			}
			if !p.Purchasable() {
				a.printf("Currently unavailable.\n")
			}
			for _, s := range p.Sizes {
				a.printf("  %-8s $%.2f\n", s.Size, s.Price)
			}
			if len(related) > 0 {
				a.printf("\nYou may also like:\n")
				a.printProducts(related)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) printProducts(products []catalog.Product) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSIZES")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, formatSizes(p.Sizes))
	}
	_ = tw.Flush()
}

func formatSizes(sizes []catalog.Size) string {
	if len(sizes) == 0 {
		return "unavailable"
	}
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%s $%.2f", s.Size, s.Price)
	}
	return strings.Join(parts, ", ")
}
