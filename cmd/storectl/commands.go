package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/example/clothing-store/internal/description"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const currency = "ر.س"

func (s *session) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 2, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + currency
}

// Products

func productFlags(requireName bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Required: requireName},
		&cli.StringFlag{Name: "price", Value: "0"},
		&cli.StringFlag{Name: "category"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "features", Usage: "generate the description from these features when --description is empty"},
		&cli.StringFlag{Name: "image"},
		&cli.IntFlag{Name: "stock"},
	}
}

// applyProductFlags copies the flags that were set onto p. A new product
// always takes --price so its default applies.
func (s *session) applyProductFlags(c *cli.Context, p *catalog.Product, isNew bool) error {
	if c.IsSet("name") {
		p.Name = c.String("name")
	}
	if c.IsSet("price") || isNew {
		price, err := decimal.NewFromString(c.String("price"))
		if err != nil {
			return fmt.Errorf("invalid price %q", c.String("price"))
		}
		p.Price = price
	}
	if c.IsSet("category") {
		p.Category = c.String("category")
	}
	if c.IsSet("description") {
		p.Description = c.String("description")
	}
	if c.IsSet("image") {
		p.ImageURL = c.String("image")
	}
	if c.IsSet("stock") {
		p.Stock = c.Int("stock")
	}
	if p.Description == "" && c.IsSet("features") {
		p.Description = s.app.Generator.Generate(c.Context, description.Request{
			Name:     p.Name,
			Category: p.Category,
			Features: c.String("features"),
		})
	}
	return nil
}

func (s *session) productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "list and edit the catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list products",
				Flags: []cli.Flag{&cli.StringFlag{Name: "category", Value: catalog.AllCategories}},
				Action: func(c *cli.Context) error {
					w := s.table()
					fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
					for _, p := range s.app.Store.ProductsByCategory(c.String("category")) {
						stock := fmt.Sprint(p.Stock)
						if p.LowStock() {
							stock += " (low)"
						}
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, money(p.Price), stock)
					}
					return w.Flush()
				},
			},
			{
				Name:  "add",
				Usage: "add a product",
				Flags: append(productFlags(true), &cli.StringFlag{Name: "id"}),
				Action: s.admin(func(c *cli.Context) error {
					p := catalog.Product{ID: c.String("id")}
					if err := s.applyProductFlags(c, &p, true); err != nil {
						return err
					}
					created, err := s.app.Store.AddProduct(c.Context, p)
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "added %s\n", created.ID)
					return nil
				}),
			},
			{
				Name:      "update",
				Usage:     "change fields of a product",
				ArgsUsage: "ID",
				Flags:     productFlags(false),
				Action: s.admin(func(c *cli.Context) error {
					id := c.Args().First()
					p, ok := s.app.Store.Product(id)
					if !ok {
						return fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
					}
					if err := s.applyProductFlags(c, &p, false); err != nil {
						return err
					}
					if err := s.app.Store.UpdateProduct(c.Context, p); err != nil {
						return err
					}
					fmt.Fprintf(s.out, "updated %s\n", id)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "remove a product from the catalog",
				ArgsUsage: "ID",
				Action: s.admin(func(c *cli.Context) error {
					if err := s.app.Store.DeleteProduct(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintf(s.out, "deleted %s\n", c.Args().First())
					return nil
				}),
			},
		},
	}
}

func (s *session) categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "list categories",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(s.out, catalog.AllCategories)
			for _, name := range s.app.Store.Categories() {
				fmt.Fprintln(s.out, name)
			}
			return nil
		},
	}
}

// Cart

func (s *session) printCart() error {
	w := s.table()
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range s.app.Store.Cart() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", item.ID, item.Name, item.Quantity, money(item.Price), money(item.Subtotal()))
	}
	fmt.Fprintf(w, "\t\t%d\t\t%s\n", s.app.Store.CartCount(), money(s.app.Store.CartTotal()))
	return w.Flush()
}

func (s *session) cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "view and edit the cart",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the cart",
				Action: func(c *cli.Context) error { return s.printCart() },
			},
			{
				Name:      "add",
				Usage:     "add one unit of a product",
				ArgsUsage: "PRODUCT_ID",
				Action: func(c *cli.Context) error {
					if err := s.app.Store.AddToCartByID(c.Context, c.Args().First()); err != nil {
						return err
					}
					return s.printCart()
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a line",
				ArgsUsage: "PRODUCT_ID",
				Action: func(c *cli.Context) error {
					if err := s.app.Store.RemoveFromCart(c.Context, c.Args().First()); err != nil {
						return err
					}
					return s.printCart()
				},
			},
			{
				Name:      "qty",
				Usage:     "change a line's quantity by delta",
				ArgsUsage: "PRODUCT_ID",
				Flags:     []cli.Flag{&cli.IntFlag{Name: "delta", Value: 1}},
				Action: func(c *cli.Context) error {
					if err := s.app.Store.UpdateCartQuantity(c.Context, c.Args().First(), c.Int("delta")); err != nil {
						return err
					}
					return s.printCart()
				},
			},
			{
				Name:  "clear",
				Usage: "empty the cart",
				Action: func(c *cli.Context) error {
					if err := s.app.Store.ClearCart(c.Context); err != nil {
						return err
					}
					return s.printCart()
				},
			},
		},
	}
}

// Orders

func (s *session) ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "place and manage orders",
		Subcommands: []*cli.Command{
			{
				Name:  "place",
				Usage: "check out the current cart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "phone", Required: true},
					&cli.StringFlag{Name: "address", Required: true},
				},
				Action: func(c *cli.Context) error {
					o, err := s.app.Store.PlaceOrder(c.Context, order.CustomerDetails{
						Name:    c.String("name"),
						Phone:   c.String("phone"),
						Address: c.String("address"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "placed %s total %s\n", o.ID, money(o.Total))
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list orders, newest first",
				Action: s.admin(func(c *cli.Context) error {
					w := s.table()
					fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tPHONE\tITEMS\tTOTAL\tSTATUS")
					for _, o := range s.app.Store.Orders() {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
							o.ID, o.Date.Format("2006-01-02 15:04"), o.CustomerName, o.CustomerPhone,
							len(o.Items), money(o.Total), o.Status)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "status",
				Usage:     "set an order's status (" + statusNames() + ")",
				ArgsUsage: "ORDER_ID STATUS",
				Action: s.admin(func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: orders status ORDER_ID STATUS")
					}
					status, err := order.ParseStatus(c.Args().Get(1))
					if err != nil {
						return err
					}
					if err := s.app.Store.UpdateOrderStatus(c.Context, c.Args().First(), status); err != nil {
						return err
					}
					fmt.Fprintf(s.out, "%s: %s\n", c.Args().First(), status)
					return nil
				}),
			},
		},
	}
}

func statusNames() string {
	names := make([]string, 0, len(order.Statuses()))
	for _, st := range order.Statuses() {
		names = append(names, st.Name())
	}
	return strings.Join(names, "|")
}

func (s *session) dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "show sales figures",
		Flags: []cli.Flag{&cli.IntFlag{Name: "top", Value: order.DefaultTopSellers}},
		Action: s.admin(func(c *cli.Context) error {
			d := s.app.Store.Stats(c.Int("top"))
			fmt.Fprintf(s.out, "sales:    %s\n", money(d.TotalSales))
			fmt.Fprintf(s.out, "orders:   %d\n", d.TotalOrders)
			fmt.Fprintf(s.out, "products: %d\n", d.TotalProducts)
			for _, st := range order.Statuses() {
				fmt.Fprintf(s.out, "  %s: %d\n", st, d.ByStatus[st])
			}
			fmt.Fprintln(s.out, "top sellers:")
			for _, ps := range d.TopSellers {
				fmt.Fprintf(s.out, "  %s\t%d\n", ps.Name, ps.Units)
			}
			if len(d.LowStock) > 0 {
				fmt.Fprintf(s.out, "low stock: %s\n", strings.Join(d.LowStock, ", "))
			}
			return nil
		}),
	}
}

func (s *session) describeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "generate a product description",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "category"},
			&cli.StringFlag{Name: "features"},
		},
		Action: s.admin(func(c *cli.Context) error {
			text := <-s.app.Generator.GenerateAsync(c.Context, description.Request{
				Name:     c.String("name"),
				Category: c.String("category"),
				Features: c.String("features"),
			})
			fmt.Fprintln(s.out, text)
			return nil
		}),
	}
}
