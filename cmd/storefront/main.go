package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/dejobratic/storefront/internal/config"
	"github.com/dejobratic/storefront/internal/shop/adapters/api"
	eventsmem "github.com/dejobratic/storefront/internal/shop/adapters/events/memory"
	identityfile "github.com/dejobratic/storefront/internal/shop/adapters/identity/file"
	"github.com/dejobratic/storefront/internal/shop/adapters/payment/hosted"
	"github.com/dejobratic/storefront/internal/shop/adapters/payment/intent"
	"github.com/dejobratic/storefront/internal/shop/app"
	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/metrics"
	"github.com/dejobratic/storefront/internal/shop/ports"
	"github.com/dejobratic/storefront/internal/telemetry"
)

func main() {
	logger := telemetry.NewLogger(os.Stderr, slog.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = telemetry.NewLogger(os.Stderr, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meters, err := metrics.NewMetrics(otel.Meter("github.com/dejobratic/storefront"))
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	identity, err := identityfile.NewStore(cfg.State.Path)
	if err != nil {
		logger.Error("failed to open identity state", "path", cfg.State.Path, "error", err)
		os.Exit(1)
	}

	gateway := api.NewClient(cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithMediaBaseURL(cfg.API.MediaBaseURL),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
	)

	bus := eventsmem.NewBus()

	out := os.Stdout
	var provider ports.PaymentProvider
	var hostedProvider *hosted.Provider
	switch cfg.Payment.Provider {
	case config.ProviderHosted:
		hostedProvider = hosted.NewProvider(consoleWidget{out: out})
		provider = hostedProvider
	default:
		provider = intent.NewProvider(intent.NewSDKClient(cfg.Payment.ConfirmURL, cfg.Payment.PublicKey))
	}

	session := app.NewSessionManager(gateway, identity, bus, logger)
	cart := app.NewCartSynchronizer(gateway, identity, bus, logger, meters)
	checkout := app.NewCheckoutOrchestrator(
		gateway, gateway, cart, identity, bus, provider, logger, meters, cfg.Payment.SkipPayment,
	)

	bus.Subscribe(ports.EventCartUpdated, func(context.Context) {
		fmt.Fprintf(out, "[cart] %d item(s)\n", cart.Count())
	})
	bus.Subscribe(ports.EventAuthChanged, func(context.Context) {
		if user := session.CurrentUser(); user != nil {
			fmt.Fprintf(out, "[auth] signed in as %s\n", user.Email)
		} else {
			fmt.Fprintln(out, "[auth] signed out")
		}
	})

	if user, err := session.Restore(ctx); err != nil {
		logger.Warn("session restore failed", "error", err)
	} else if user != nil {
		if _, err := cart.Refresh(ctx); err != nil {
			logger.Warn("initial cart refresh failed", "error", err)
		}
		fmt.Fprintf(out, "welcome back, %s\n", user.Name)
	}
	if !session.IsAuthenticated() {
		// Browsing anonymously still needs a stable guest id so the server
		// can merge any pre-login cart on the next sign-in.
		if _, err := identity.EnsureAnonymousCartID(); err != nil {
			logger.Warn("failed to mint anonymous cart id", "error", err)
		}
	}

	if settings, err := gateway.GetSettings(ctx); err == nil && settings.Title != "" {
		fmt.Fprintf(out, "%s — type 'help' for commands\n", settings.Title)
	} else {
		fmt.Fprintln(out, "storefront — type 'help' for commands")
	}

	c := &cli{
		out:      out,
		gateway:  gateway,
		identity: identity,
		session:  session,
		cart:     cart,
		checkout: checkout,
		hosted:   hostedProvider,
		logger:   logger,
	}
	c.run(ctx, os.Stdin)
}

// cli is the interactive shell over the application services. Each command
// maps onto one operation; all coordination lives below in the app layer.
type cli struct {
	out      io.Writer
	gateway  *api.Client
	identity ports.IdentityStore
	session  *app.SessionManager
	cart     *app.CartSynchronizer
	checkout *app.CheckoutOrchestrator
	hosted   *hosted.Provider
	logger   *slog.Logger

	// last Begin result, reused to prefill the submitted draft.
	view *app.CheckoutView
}

func (c *cli) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Fprint(c.out, "> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\nbye")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if c.dispatch(ctx, strings.Fields(line)) {
				return
			}
			fmt.Fprint(c.out, "> ")
		}
	}
}

// dispatch runs one command and reports whether the shell should exit.
func (c *cli) dispatch(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "help":
		c.printHelp()
	case "products":
		c.listProducts(ctx, args[1:])
	case "product":
		c.showProduct(ctx, args[1:])
	case "login":
		c.login(ctx, args[1:])
	case "register":
		c.register(ctx, args[1:])
	case "logout":
		c.logout(ctx)
	case "whoami":
		c.whoami()
	case "cart":
		c.showCart(ctx)
	case "add":
		c.addToCart(ctx, args[1:])
	case "update":
		c.updateCart(ctx, args[1:])
	case "remove":
		c.removeFromCart(ctx, args[1:])
	case "checkout":
		c.beginCheckout(ctx)
	case "pay":
		c.submitCheckout(ctx, false)
	case "pay-test":
		c.submitCheckout(ctx, true)
	case "paid":
		c.hostedCallback(args[1:], true)
	case "pay-failed":
		c.hostedCallback(args[1:], false)
	case "orders":
		c.listOrders(ctx, args[1:])
	case "order":
		c.showOrder(ctx, args[1:])
	case "subscribe":
		c.subscribe(ctx, args[1:])
	default:
		fmt.Fprintf(c.out, "unknown command %q, try 'help'\n", args[0])
	}
	return false
}

func (c *cli) printHelp() {
	fmt.Fprint(c.out, `commands:
  products [page]          list catalog products
  product <id>             show one product
  login <email> <pass>     sign in (merges any guest cart)
  register <name> <email> <pass>
  logout                   sign out
  whoami                   show the current session
  cart                     show the cart
  add <product> <qty>      add a product to the cart
  update <product> <qty>   set an absolute line quantity
  remove <product>         remove a line
  checkout                 review the cart and prefilled addresses
  pay                      submit the order and confirm payment
  pay-test                 submit without payment (when enabled)
  paid <ref> <payment>     hosted-widget success callback
  pay-failed <ref> <why..> hosted-widget failure callback
  orders [page]            list past orders
  order <id>               show one order
  subscribe <email>        join the newsletter
  exit
`)
}

func (c *cli) listProducts(ctx context.Context, args []string) {
	page := 1
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
			page = parsed
		}
	}
	products, err := c.gateway.ListProducts(ctx, page)
	if err != nil {
		c.printError(err)
		return
	}
	for _, p := range products {
		fmt.Fprintf(c.out, "%6d  %-40s  %s\n", p.ID, p.DisplayName(), p.Price)
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "no products on this page")
	}
}

func (c *cli) showProduct(ctx context.Context, args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	p, err := c.gateway.GetProduct(ctx, id)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "%s\nprice: %s\nvendor: %s\n", p.DisplayName(), p.Price, p.Vendor.Name)
	if p.Stock != nil {
		fmt.Fprintf(c.out, "stock: %d\n", *p.Stock)
	}
	if image := p.PrimaryImage(); image != "" {
		fmt.Fprintf(c.out, "image: %s\n", c.gateway.ResolveMediaURL(image))
	}
}

func (c *cli) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "usage: login <email> <password>")
		return
	}
	if _, err := c.session.Login(ctx, args[0], args[1]); err != nil {
		c.printError(err)
		return
	}
	if _, err := c.cart.Refresh(ctx); err != nil {
		c.logger.Warn("cart refresh after login failed", "error", err)
	}
}

func (c *cli) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.out, "usage: register <name> <email> <password>")
		return
	}
	_, err := c.session.Register(ctx, ports.RegisterInput{
		Name:                 args[0],
		Email:                args[1],
		Password:             args[2],
		PasswordConfirmation: args[2],
	})
	if err != nil {
		c.printError(err)
	}
}

func (c *cli) logout(ctx context.Context) {
	if err := c.session.Logout(ctx); err != nil {
		c.printError(err)
		return
	}
	c.cart.Clear()
	c.view = nil
}

func (c *cli) whoami() {
	if user := c.session.CurrentUser(); user != nil {
		fmt.Fprintf(c.out, "%s <%s>\n", user.Name, user.Email)
		return
	}
	fmt.Fprintln(c.out, "not signed in")
}

func (c *cli) showCart(ctx context.Context) {
	cart, err := c.cart.Refresh(ctx)
	if err != nil {
		c.printError(err)
		return
	}
	if cart.IsEmpty() {
		fmt.Fprintln(c.out, "cart is empty")
		return
	}
	for _, line := range cart.Items {
		fmt.Fprintf(c.out, "%6d  %-40s  x%d  %s\n",
			line.Product.ID, line.Product.DisplayName(), line.Quantity, line.LineTotal())
	}
	fmt.Fprintf(c.out, "total: %s\n", cart.Total())
}

func (c *cli) addToCart(ctx context.Context, args []string) {
	id, qty, ok := c.parseIDAndQty(args, "add")
	if !ok {
		return
	}
	if err := c.cart.Add(ctx, id, qty); err != nil {
		c.printError(err)
	}
}

func (c *cli) updateCart(ctx context.Context, args []string) {
	id, qty, ok := c.parseIDAndQty(args, "update")
	if !ok {
		return
	}
	if err := c.cart.UpdateQuantity(ctx, id, qty); err != nil {
		c.printError(err)
	}
}

func (c *cli) removeFromCart(ctx context.Context, args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	if err := c.cart.Remove(ctx, id); err != nil {
		c.printError(err)
	}
}

func (c *cli) beginCheckout(ctx context.Context) {
	view, err := c.checkout.Begin(ctx)
	if err != nil {
		c.printError(err)
		return
	}
	c.view = view

	for _, line := range view.Cart.Items {
		fmt.Fprintf(c.out, "%6d  %-40s  x%d\n", line.Product.ID, line.Product.DisplayName(), line.Quantity)
	}
	fmt.Fprintf(c.out, "total: %s\n", view.Total)
	if view.Billing != nil {
		fmt.Fprintf(c.out, "billing: %s, %s, %s\n", view.Billing.Name, view.Billing.Line1, view.Billing.City)
	}
	if view.Shipping != nil {
		fmt.Fprintf(c.out, "shipping: %s, %s, %s\n", view.Shipping.Name, view.Shipping.Line1, view.Shipping.City)
	}
	if view.Billing == nil || view.Shipping == nil {
		fmt.Fprintln(c.out, "no saved address; add one in your account before paying")
		return
	}
	fmt.Fprintln(c.out, "run 'pay' to place the order")
}

func (c *cli) submitCheckout(ctx context.Context, testOrder bool) {
	if c.view == nil || c.view.Billing == nil || c.view.Shipping == nil {
		fmt.Fprintln(c.out, "run 'checkout' first")
		return
	}

	draft := domain.DraftFromCart(c.view.Cart, "", *c.view.Billing, *c.view.Shipping)

	// Confirmation may block on shopper action, so the shell stays usable
	// while the attempt runs.
	go func() {
		var err error
		if testOrder {
			err = c.checkout.SubmitTestOrder(ctx, draft)
		} else {
			err = c.checkout.Submit(ctx, draft)
		}
		switch {
		case err == nil && c.checkout.State() == domain.CheckoutSucceeded:
			fmt.Fprintln(c.out, "\norder placed, thank you")
		case err == nil:
			fmt.Fprintln(c.out, "\npayment is awaiting your action")
		default:
			fmt.Fprintf(c.out, "\ncheckout: %s\n", displayError(err))
		}
		fmt.Fprint(c.out, "> ")
	}()
}

func (c *cli) hostedCallback(args []string, success bool) {
	if c.hosted == nil {
		fmt.Fprintln(c.out, "hosted payment provider is not configured")
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(c.out, "usage: paid <order-ref> <payment-id> | pay-failed <order-ref> <reason..>")
		return
	}
	if success {
		c.hosted.CompletePayment(args[0], args[1])
		return
	}
	c.hosted.FailPayment(args[0], strings.Join(args[1:], " "))
}

func (c *cli) listOrders(ctx context.Context, args []string) {
	page := 1
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
			page = parsed
		}
	}
	orders, err := c.gateway.ListOrders(ctx, c.identity.Credential(), page)
	if err != nil {
		c.printError(err)
		return
	}
	for _, o := range orders {
		fmt.Fprintf(c.out, "%6d  %-12s  %-10s  %s\n", o.ID, o.Reference, o.Status, o.TotalAmount)
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "no orders yet")
	}
}

func (c *cli) showOrder(ctx context.Context, args []string) {
	id, ok := c.parseID(args)
	if !ok {
		return
	}
	o, err := c.gateway.GetOrder(ctx, c.identity.Credential(), id)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "order %d (%s): %s, total %s\n", o.ID, o.Reference, o.Status, o.TotalAmount)
	for _, line := range o.Items {
		fmt.Fprintf(c.out, "  %-40s  x%d\n", line.Product.DisplayName(), line.Quantity)
	}
}

func (c *cli) subscribe(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "usage: subscribe <email>")
		return
	}
	if err := c.gateway.SubscribeNewsletter(ctx, args[0]); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "subscribed")
}

func (c *cli) parseID(args []string) (int64, bool) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "a product or order id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(c.out, "invalid id %q\n", args[0])
		return 0, false
	}
	return id, true
}

func (c *cli) parseIDAndQty(args []string, usage string) (int64, int, bool) {
	if len(args) < 2 {
		fmt.Fprintf(c.out, "usage: %s <product> <quantity>\n", usage)
		return 0, 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(c.out, "invalid product id %q\n", args[0])
		return 0, 0, false
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "invalid quantity %q\n", args[1])
		return 0, 0, false
	}
	return id, qty, true
}

func (c *cli) printError(err error) {
	fmt.Fprintln(c.out, displayError(err))
}

func displayError(err error) string {
	switch {
	case err == nil:
		return ""
	case ports.IsValidationError(err):
		apiErr, _ := ports.AsAPIError(err)
		return apiErr.FirstFieldError()
	case ports.IsTransportError(err):
		return "network error, please check your connection"
	case ports.IsServerError(err):
		return "server error, please try again later"
	}
	return err.Error()
}

// consoleWidget is the hosted-payment surface of a terminal client: it
// prints where to pay and which callback command finishes the attempt.
type consoleWidget struct {
	out io.Writer
}

func (w consoleWidget) Open(_ context.Context, handle *ports.PaymentHandle) error {
	fmt.Fprintf(w.out, "\ncomplete payment for order %s (%d %s minor units) in the hosted window,\n",
		handle.OrderRef, handle.AmountMinor, handle.Currency)
	fmt.Fprintf(w.out, "then run: paid %s <payment-id>\n", handle.OrderRef)
	return nil
}
