package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/dto"
	"github.com/tair/techstore/internal/product/view"
)

func newBrowseCommand(app *App) *cobra.Command {
	var (
		brands, types      []string
		minPrice, maxPrice string
		search, sortKey    string
	)
	cmd := &cobra.Command{
		Use:   "browse <category>",
		Short: "List the products of a category with filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := view.NewCatalog(app.Access)
			if err := catalog.SelectCategory(cmd.Context(), args[0]); err != nil {
				return err
			}

			patch := domain.CriteriaPatch{}
			flags := cmd.Flags()
			if flags.Changed("brand") {
				patch.Brands = brands
			}
			if flags.Changed("type") {
				patch.Types = types
			}
			if flags.Changed("min-price") {
				patch.MinPrice = &minPrice
			}
			if flags.Changed("max-price") {
				patch.MaxPrice = &maxPrice
			}
			if flags.Changed("search") {
				patch.Search = &search
			}
			if flags.Changed("sort") {
				key := domain.SortKey(sortKey)
				patch.Sort = &key
			}
			catalog.UpdateFilter(patch)

			snap := catalog.Snapshot()
			if snap.Err != nil {
				return snap.Err
			}
			printf(cmd.OutOrStdout(), "%s (%d products)\n", snap.Category.Title, len(snap.Products))
			return writeTable(cmd.OutOrStdout(), snap.Products)
		},
	}
	cmd.Flags().StringSliceVar(&brands, "brand", nil, "brands to include (repeatable)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "product types to include (repeatable)")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "price floor")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "price ceiling")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text search")
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.SortDefault), "default|price-asc|price-desc")
	return cmd
}

func newCategoriesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKEY\tTITLE")
			for _, c := range domain.Categories() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Key, c.Title)
			}
			return w.Flush()
		},
	}
}

func newGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Access.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromProduct(p))
		},
	}
}

func newCreateCommand(app *App) *cobra.Command {
	var in domain.ProductInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product (Admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Access.Create(cmd.Context(), "", in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromProduct(p))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.CategoryKey, "category", "", "category key")
	f.StringVar(&in.Name, "name", "", "name")
	f.StringVar(&in.Brand, "brand", "", "brand")
	f.StringVar(&in.ProductType, "type", "", "product type")
	f.Float64Var(&in.Price, "price", 0, "price")
	f.IntVar(&in.StockQuantity, "stock", 0, "stock quantity")
	f.StringVar(&in.SKU, "sku", "", "stock keeping unit")
	f.StringVar(&in.ShortDescription, "short-description", "", "short description")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.ImageURL, "image-url", "", "image URL")
	return cmd
}

func newUpdateCommand(app *App) *cobra.Command {
	var (
		price float64
		stock int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a product (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch domain.ProductPatch
			flags := cmd.Flags()
			for flag, target := range map[string]**string{
				"category":          &patch.CategoryKey,
				"name":              &patch.Name,
				"brand":             &patch.Brand,
				"type":              &patch.ProductType,
				"sku":               &patch.SKU,
				"short-description": &patch.ShortDescription,
				"description":       &patch.Description,
				"image-url":         &patch.ImageURL,
			} {
				if flags.Changed(flag) {
					v, _ := flags.GetString(flag)
					*target = &v
				}
			}
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("stock") {
				patch.StockQuantity = &stock
			}

			p, err := app.Access.Update(cmd.Context(), "", id, patch)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromProduct(p))
		},
	}
	f := cmd.Flags()
	f.String("category", "", "category key")
	f.String("name", "", "name")
	f.String("brand", "", "brand")
	f.String("type", "", "product type")
	f.String("sku", "", "stock keeping unit (empty clears it)")
	f.String("short-description", "", "short description")
	f.String("description", "", "description")
	f.String("image-url", "", "image URL")
	f.Float64Var(&price, "price", 0, "price")
	f.IntVar(&stock, "stock", 0, "stock quantity")
	return cmd
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Access.Delete(cmd.Context(), "", id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "deleted product %d\n", id)
			return nil
		},
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return uint(id), nil
}

func writeTable(out io.Writer, products []domain.Product) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tTYPE\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Brand, p.ProductType, p.Price, p.StockQuantity)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
