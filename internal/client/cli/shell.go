// Package cli is the terminal front end of the storefront client: a REPL
// with one command set per screen.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dtroode/storefront/internal/client/app"
	"github.com/dtroode/storefront/internal/client/authform"
	"github.com/dtroode/storefront/internal/client/detail"
	"github.com/dtroode/storefront/internal/client/gate"
	"github.com/dtroode/storefront/internal/model"
)

var errUnknownCommand = errors.New("unknown command, type help")

const screenLoading = "loading"

var help = map[string]string{
	string(model.ScreenAuth):    "login, register, password show|hide, exit",
	string(model.ScreenHome):    "list, add, edit <n>, delete <n>, open <n>, name, avatar <file>, logout, exit",
	string(model.ScreenProduct): "show, edit, save, delete, back, exit",
	screenLoading:               "exit",
}

// Shell runs commands against an App.
type Shell struct {
	app    *app.App
	prompt *Prompter
	out    io.Writer

	detail *detail.Detail
}

func New(a *app.App, in io.Reader, out io.Writer) *Shell {
	return &Shell{app: a, prompt: NewPrompter(in, out), out: out}
}

// Run reads commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome! Type help for the list of commands.")

	for {
		fmt.Fprintf(s.out, "storefront %s> ", s.screen())
		line, err := s.prompt.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		quit, err := s.Execute(ctx, line)
		if err != nil {
			s.report(err)
		}
		if quit {
			fmt.Fprintln(s.out, "Bye!")
			return nil
		}
	}
}

// Execute runs one command line. quit is true for exit.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}

	screen := s.screen()
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintf(s.out, "Available commands: %s\n", help[screen])
		return false, nil
	}

	switch screen {
	case string(model.ScreenAuth):
		return false, s.authCommand(ctx, args)
	case string(model.ScreenHome):
		return false, s.homeCommand(ctx, args)
	case string(model.ScreenProduct):
		return false, s.productCommand(ctx, args)
	default:
		return false, errUnknownCommand
	}
}

// screen resolves the visible screen and keeps the product controller in
// step with navigation.
func (s *Shell) screen() string {
	if s.app.Gate.State() == gate.Loading {
		return screenLoading
	}

	route, ok := s.app.Nav.Current()
	if !ok || !s.app.Gate.Allows(route.Screen) {
		s.detail = nil
		return string(s.app.Gate.Screens()[0])
	}

	if route.Screen != model.ScreenProduct {
		s.detail = nil
		return string(route.Screen)
	}

	product, _ := route.Params.(model.Product)
	if s.detail == nil || s.detail.Product().ID != product.ID {
		s.detail = s.app.Detail(product)
	}
	return string(route.Screen)
}

func (s *Shell) report(err error) {
	var validation model.ValidationErrors
	var authErr *model.AuthError

	switch {
	case errors.As(err, &validation):
		fields := make([]string, 0, len(validation))
		for f := range validation {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(s.out, "  %s: %s\n", f, validation[f])
		}
	case errors.As(err, &authErr):
		fmt.Fprintf(s.out, "Error: %s\n", authErr.Message)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) authCommand(ctx context.Context, args []string) error {
	form := s.app.Auth

	switch args[0] {
	case "password":
		if len(args) != 2 || (args[1] != "show" && args[1] != "hide") {
			return errUnknownCommand
		}
		if (args[1] == "show") != form.ShowPassword() {
			form.TogglePassword()
		}
		return nil

	case "login":
		form.SetMode(authform.ModeLogin)
		if err := s.askCredentials(); err != nil {
			return err
		}
		if err := form.Submit(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Signed in.")
		return nil

	case "register":
		form.SetMode(authform.ModeRegister)
		if err := s.askCredentials(); err != nil {
			return err
		}
		for _, q := range []struct {
			field  authform.Field
			prompt string
		}{
			{authform.FieldName, "Name"},
			{authform.FieldAge, "Age"},
			{authform.FieldUsername, "Username"},
		} {
			answer, err := s.prompt.Ask(q.prompt)
			if err != nil {
				return err
			}
			form.Set(q.field, answer)
		}
		if err := form.Submit(ctx); err != nil {
			return err
		}
		if form.RegistrationSuccess() {
			fmt.Fprintln(s.out, "Registration successful!")
		}
		return nil
	}

	return errUnknownCommand
}

func (s *Shell) askCredentials() error {
	email, err := s.prompt.Ask("Email")
	if err != nil {
		return err
	}

	var password string
	if s.app.Auth.ShowPassword() {
		password, err = s.prompt.Ask("Password")
	} else {
		password, err = s.prompt.Password("Password")
	}
	if err != nil {
		return err
	}

	s.app.Auth.Set(authform.FieldEmail, email)
	s.app.Auth.Set(authform.FieldPassword, password)
	return nil
}

func (s *Shell) homeCommand(ctx context.Context, args []string) error {
	c := s.app.Catalog

	switch args[0] {
	case "list", "ls":
		s.printCatalog()
		return nil

	case "add":
		c.ShowAddForm(true)
		for _, f := range model.ProductFields {
			answer, err := s.prompt.Ask(fieldLabel(f))
			if err != nil {
				c.ShowAddForm(false)
				return err
			}
			c.SetAddField(f, answer)
		}
		key, err := c.AddProduct(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Product added (%s).\n", key)
		return nil

	case "edit":
		id, err := s.productArg(args)
		if err != nil {
			return err
		}
		c.StartEdit(id)
		current, _ := c.Editing()
		for _, f := range model.ProductFields {
			answer, err := s.prompt.AskDefault(fieldLabel(f), current.Get(f))
			if err != nil {
				c.CancelEdit()
				return err
			}
			c.SetEditField(f, answer)
		}
		edited, ok := c.Editing()
		if !ok {
			return model.ErrNotFound
		}
		return c.EditProduct(ctx, edited)

	case "delete", "rm":
		id, err := s.productArg(args)
		if err != nil {
			return err
		}
		return c.DeleteProduct(ctx, id)

	case "open":
		id, err := s.productArg(args)
		if err != nil {
			return err
		}
		return c.OpenProduct(id)

	case "name":
		c.ShowProfileForm(true)
		name, err := s.prompt.AskDefault("New name", c.Profile().Name)
		if err != nil {
			c.ShowProfileForm(false)
			return err
		}
		c.SetNameDraft(name)
		return c.EditProfile(ctx, c.NameDraft())

	case "avatar":
		if len(args) < 2 {
			return errors.New("usage: avatar <file>")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read avatar: %w", err)
		}
		if err := s.app.Avatars.Upload(ctx, data); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Avatar updated.")
		return nil

	case "logout":
		return c.Logout(ctx)
	}

	return errUnknownCommand
}

// productArg resolves a list number or product id.
func (s *Shell) productArg(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: %s <n>", args[0])
	}

	products := s.app.Catalog.Products()
	if n, err := strconv.Atoi(args[1]); err == nil && n >= 1 && n <= len(products) {
		return products[n-1].ID, nil
	}
	if _, ok := s.app.Catalog.Product(args[1]); ok {
		return args[1], nil
	}
	return "", model.ErrNotFound
}

func (s *Shell) productCommand(ctx context.Context, args []string) error {
	d := s.detail

	switch args[0] {
	case "show":
		s.printProduct(d.Product())
		return nil

	case "edit":
		d.StartEdit()
		current := d.Product()
		for _, f := range model.ProductFields {
			answer, err := s.prompt.AskDefault(fieldLabel(f), current.Get(f))
			if err != nil {
				return err
			}
			d.SetField(f, answer)
		}
		fmt.Fprintln(s.out, "Type save to store the changes.")
		return nil

	case "save":
		if !d.Editing() {
			return errors.New("not editing, type edit first")
		}
		if err := d.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Saved.")
		return nil

	case "delete", "rm":
		d.RequestDelete()
		ok, err := s.prompt.Confirm("Are you sure you want to delete this product?")
		if err != nil || !ok {
			d.CancelDelete()
			return err
		}
		return d.ConfirmDelete(ctx)

	case "back":
		s.app.Nav.GoBack()
		return nil
	}

	return errUnknownCommand
}

func (s *Shell) printCatalog() {
	profile := s.app.Catalog.Profile()
	fmt.Fprintf(s.out, "%s (avatar: %s)\n", profile.Name, profile.Avatar)

	products := s.app.Catalog.Products()
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products yet. Type add to create one.")
		return
	}
	for i, p := range products {
		fmt.Fprintf(s.out, "%d. %s  $%s - Stock: %s\n   %s\n", i+1, p.Name, p.Price, p.Stock, p.Description)
	}
}

func (s *Shell) printProduct(p model.Product) {
	for _, f := range model.ProductFields {
		fmt.Fprintf(s.out, "%-12s %s\n", fieldLabel(f)+":", p.Get(f))
	}
	actions := s.app.Nav.Options(model.ScreenProduct).Actions
	fmt.Fprintf(s.out, "Actions: %s\n", strings.Join(actions, ", "))
}

func fieldLabel(f model.ProductField) string {
	label := string(f)
	return strings.ToUpper(label[:1]) + label[1:]
}
