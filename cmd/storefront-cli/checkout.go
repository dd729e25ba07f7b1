package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var form checkout.Form

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			s, err := a.openCart(ctx)
			if err != nil {
				return err
			}

			wf := checkout.NewWorkflow(s, a.orders, a.notifier, a.logger)
			// The owner alert runs in the background; let it finish before exit.
			defer wf.Wait()

			if err := wf.Open(); err != nil {
				if errors.Is(err, checkout.ErrEmptyCart) {
					a.printf("Your cart is empty.\n")
				}
				return err
			}

			o, err := wf.Submit(ctx, form)
			var verr *checkout.ValidationError
			switch {
			case errors.As(err, &verr):
				a.printf("Please fill in: %v\n", verr.Missing)
				return err
			case errors.Is(err, checkout.ErrOrderFailed):
				a.printf("Failed to place order, try again.\n")
				return err
			case err != nil:
				return err
			}

			a.printf("Order placed. Your order id is %s.\n", o.ID)
			a.printf("Deliver to: %s\n", o.FullDeliveryAddress)
			a.printf("Total: $%.2f\n", o.TotalPrice)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.City, "city", "", "delivery city")
	f.StringVar(&form.Street, "street", "", "street")
	f.StringVar(&form.Building, "building", "", "building")
	f.StringVar(&form.Floor, "floor", "", "floor")
	f.StringVar(&form.Phone, "phone", "", "phone number the courier can call")
	f.StringVar(&form.Details, "details", "", "extra delivery details")
	return cmd
}
