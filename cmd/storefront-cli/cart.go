package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}

	var (
		size     string
		quantity int
	)
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product size to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			p, _, err := a.catalog.Get(ctx, args[0])
			if err != nil {
				return err
			}

			label := size
			if label == "" && p.Purchasable() {
				label = p.Sizes[0].Size
			}
			sz, err := cart.SelectSize(p, label)
			if err != nil {
				return err
			}

			s, err := a.openCart(ctx)
			if err != nil {
				return err
			}
			if err := s.Add(ctx, p, sz, quantity); err != nil {
				return err
			}
			a.printf("Added %s (%s) to the cart.\n", p.Name, sz.Size)
			a.printCart(s)
			return nil
		},
	}
	add.Flags().StringVar(&size, "size", "", "size label, defaults to the first size")
	add.Flags().IntVar(&quantity, "qty", 1, "quantity to add")

	remove := &cobra.Command{
		Use:   "remove <product-id> <size>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			s, err := a.openCart(ctx)
			if err != nil {
				return err
			}
			if err := s.Remove(ctx, args[0], args[1]); err != nil {
				return err
			}
			a.printCart(s)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <size> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			ctx := a.context(cmd)
			s, err := a.openCart(ctx)
			if err != nil {
				return err
			}
			if err := s.UpdateQuantity(ctx, args[0], args[1], qty); err != nil {
				return err
			}
			a.printCart(s)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openCart(a.context(cmd))
			if err != nil {
				return err
			}
			a.printCart(s)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			s, err := a.openCart(ctx)
			if err != nil {
				return err
			}
			if err := s.Clear(ctx); err != nil {
				return err
			}
			a.printCart(s)
			return nil
		},
	}

	cmd.AddCommand(add, remove, set, show, clearCmd)
	return cmd
}

func (a *app) printCart(s *cart.Store) {
	lines := s.Lines()
	if len(lines) == 0 {
		a.printf("Your cart is empty.\n")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.2f\t$%s\n",
			l.Product.ID, l.Product.Name, l.SelectedSize.Size, l.Quantity, l.SelectedSize.Price, l.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	a.printf("Total: $%s\n", cart.Total(lines).StringFixed(2))
}
