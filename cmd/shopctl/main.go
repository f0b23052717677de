// shopctl is a terminal front-end for the storefront cart: it keeps a local
// mirror of the remote cart, mutates it through the API and runs the
// partial-selection checkout flow with an interactive confirmation prompt.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"shopfront/internal/cart"
	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

const usage = `Usage: shopctl <command> [args]

Commands:
  show                     load and display the cart
  add <productId>          add one unit of a product
  qty <productId> <n>      set the quantity of a cart line
  clear                    empty the cart
  checkout [productId...]  check out the given products (default: all)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, model.ErrCheckoutDeclined) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("command is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).Level(zerolog.WarnLevel)

	creds := &client.StaticCredentials{
		APIKey: cfg.Client.APIKey,
		UserID: cfg.Client.UserID,
	}

	store := client.NewHTTP(
		cfg.Client.BaseURL,
		&http.Client{Timeout: time.Duration(cfg.Client.TimeoutSec) * time.Second},
		creds,
		logger,
	)

	view := &terminalView{out: os.Stdout}
	confirmer := &terminalConfirmer{in: bufio.NewReader(os.Stdin), out: os.Stdout}

	session := cart.NewSession(store, store, view, confirmer, cart.Options{
		ReloadDelay:   time.Duration(cfg.Client.ReloadDelayMS) * time.Millisecond,
		Authenticated: cfg.Client.UserID != "",
	}, logger)

	ctx := context.Background()

	switch args[0] {
	case "show":
		if err := session.Manager.Load(ctx); err != nil {
			return err
		}
		view.RenderCart(session.State)
		return nil

	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl add <productId>")
		}
		if err := session.Manager.Add(ctx, args[1]); err != nil {
			return err
		}
		view.RenderCart(session.State)
		return nil

	case "qty":
		if len(args) != 3 {
			return fmt.Errorf("usage: shopctl qty <productId> <n>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		return session.Manager.UpdateQuantity(ctx, args[1], quantity)

	case "clear":
		return session.Manager.Clear(ctx)

	case "checkout":
		if err := session.Start(ctx); err != nil {
			return err
		}
		ids := args[1:]
		if len(ids) == 0 {
			ids = session.State.ProductIDs()
		}
		_, err := session.Checkout.Checkout(ctx, cart.NewSelection(ids...))
		return err

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// terminalView renders the cart to a writer.
type terminalView struct {
	out *os.File
}

func (v *terminalView) RenderCart(state *cart.State) {
	fmt.Fprintln(v.out, "Cart")
	fmt.Fprintln(v.out, "----")
	for _, item := range state.Items() {
		fmt.Fprintf(v.out, "%-10s %-30s qty %-3d  $%.2f\n",
			item.Product.ID, item.Product.Name, item.Quantity, item.LineTotal)
	}
	fmt.Fprintf(v.out, "Total Items: %d (%d unique products)\n",
		state.TotalQuantity(), state.ItemCount())
	fmt.Fprintf(v.out, "Cart Total: $%s\n", state.DisplayTotal())
}

func (v *terminalView) SetBadge(count int) {
	fmt.Fprintf(v.out, "[cart: %d]\n", count)
}

func (v *terminalView) Info(message string) {
	fmt.Fprintln(v.out, message)
}

func (v *terminalView) Error(message string) {
	fmt.Fprintln(v.out, "! "+message)
}

// terminalConfirmer prompts for a y/n answer on the terminal.
type terminalConfirmer struct {
	in  *bufio.Reader
	out *os.File
}

func (c *terminalConfirmer) Confirm(_ context.Context, summary cart.Summary) (bool, error) {
	fmt.Fprintf(c.out, "Ready to place your order?\n")
	fmt.Fprintf(c.out, "Items: %d (%d products)\n", summary.TotalQuantity, summary.Products)
	fmt.Fprintf(c.out, "Total: $%s\n", summary.DisplayTotal())
	fmt.Fprint(c.out, "Confirm [y/N]: ")

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer := line
	if len(answer) > 0 {
		answer = answer[:1]
	}
	return answer == "y" || answer == "Y", nil
}
