// Package view is the line-oriented admin console. It reads commands,
// forwards them to the console state and re-renders on every change.
package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"catalog-admin/internal/console"
	"catalog-admin/internal/dialog"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/editor"

	"go.uber.org/zap"
)

var ErrUsage = errors.New("usage")

// Console is the state the view drives
type Console interface {
	Subscribe(topic string, fn interface{}) error
	Authenticated() bool
	Products() []domain.Product
	Mode() dialog.Mode
	Login(ctx context.Context, creds domain.Credentials) error
	Refresh(ctx context.Context) error
	OpenCreate() error
	OpenEdit(id string) error
	OpenDelete(id string) error
	Confirm(ctx context.Context) error
	Cancel()
	Edit(fn func(d *editor.Draft) error) error
}

type Options struct {
	// ShowErrors prints failed API calls instead of only logging them
	ShowErrors bool
	Prompt     string
}

type View struct {
	app    Console
	out    io.Writer
	logger *zap.Logger
	opts   Options
}

// New creates a View writing to out and subscribes it to app's changes
func New(app Console, out io.Writer, logger *zap.Logger, opts Options) (*View, error) {
	v := &View{
		app:    app,
		out:    out,
		logger: logger,
		opts:   opts,
	}

	subscriptions := map[string]interface{}{
		console.TopicSession:  v.onSession,
		console.TopicProducts: v.onProducts,
		console.TopicDialog:   v.onDialog,
	}
	for topic, fn := range subscriptions {
		if err := app.Subscribe(topic, fn); err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}

	return v, nil
}

// Run reads commands from in until quit, end of input or ctx is done
func (v *View) Run(ctx context.Context, in io.Reader) error {
	if !v.app.Authenticated() {
		v.printf("Not signed in. Use: login <username> <password>\n")
	}

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.printf("%s", v.opts.Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		quit, err := v.Execute(ctx, scanner.Text())
		if err != nil {
			v.printf("%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. It reports whether the console should exit.
// Returned errors are local mistakes meant for the user; failed API calls are
// handled by report.
func (v *View) Execute(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		v.renderHelp()
		return false, nil
	case "login":
		if len(args) < 2 {
			return false, fmt.Errorf("%w: login <username> <password>", ErrUsage)
		}
		creds := domain.Credentials{Username: args[0], Password: strings.Join(args[1:], " ")}
		v.report("Sign in", v.app.Login(ctx, creds))
		return false, nil
	}

	if !v.app.Authenticated() {
		return false, fmt.Errorf("not signed in, use: login <username> <password>")
	}

	switch cmd {
	case "list":
		v.report("Load products", v.app.Refresh(ctx))
	case "show":
		v.renderProducts(v.app.Products())
		v.renderDialog(v.app.Mode())
	case "new":
		return false, v.app.OpenCreate()
	case "edit":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: edit <id>", ErrUsage)
		}
		return false, v.app.OpenEdit(args[0])
	case "delete":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: delete <id>", ErrUsage)
		}
		return false, v.app.OpenDelete(args[0])
	case "set":
		if len(args) < 1 {
			return false, fmt.Errorf("%w: set <field> <value...>", ErrUsage)
		}
		field, value := args[0], strings.Join(args[1:], " ")
		return false, v.app.Edit(func(d *editor.Draft) error { return d.SetField(field, value) })
	case "enable", "disable":
		enabled := cmd == "enable"
		return false, v.app.Edit(func(d *editor.Draft) error {
			d.IsEnabled = enabled
			return nil
		})
	case "image":
		return false, v.image(args)
	case "confirm":
		err := v.app.Confirm(ctx)
		if errors.Is(err, dialog.ErrDialogClosed) {
			return false, err
		}
		v.report("Save", err)
	case "cancel":
		v.app.Cancel()
	case "export":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: export <file.csv>", ErrUsage)
		}
		n, err := ExportFile(args[0], v.app.Products())
		if err != nil {
			return false, err
		}
		v.printf("Exported %d products to %s\n", n, args[0])
	default:
		return false, fmt.Errorf("unknown command %q, type help for a list", cmd)
	}

	return false, nil
}

func (v *View) image(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: image <n> [url] | image add | image remove", ErrUsage)
	}

	switch args[0] {
	case "add":
		return v.app.Edit(func(d *editor.Draft) error {
			if !d.AddImage() {
				return errors.New("fill the last image slot before adding another")
			}
			return nil
		})
	case "remove":
		return v.app.Edit(func(d *editor.Draft) error {
			if !d.RemoveImage() {
				return errors.New("there are no image slots to remove")
			}
			return nil
		})
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: image <n> [url], n counts from 1", ErrUsage)
	}
	url := strings.Join(args[1:], " ")
	return v.app.Edit(func(d *editor.Draft) error { return d.SetImage(n-1, url) })
}

// report logs a failed API call and prints it only when asked to
func (v *View) report(action string, err error) {
	if err == nil {
		return
	}
	v.logger.Warn(action+" failed", zap.Error(err))
	if v.opts.ShowErrors {
		v.printf("%s failed: %v\n", action, err)
	}
}

func (v *View) onSession(authenticated bool) {
	if authenticated {
		v.printf("Signed in.\n")
	}
}

func (v *View) onProducts(count int) {
	v.renderProducts(v.app.Products())
}

func (v *View) onDialog(mode dialog.Mode) {
	v.renderDialog(mode)
}

func (v *View) printf(format string, args ...interface{}) {
	fmt.Fprintf(v.out, format, args...)
}
