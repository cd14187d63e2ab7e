package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"courier-booking/app"
	"courier-booking/httpServices/courier"
	"courier-booking/models/shipment"
	"courier-booking/services/tracking"
	authTypes "courier-booking/types/auth"
	shipmentTypes "courier-booking/types/shipment"

	"github.com/urfave/cli/v2"
)

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create a customer account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "first-name"},
			&cli.StringFlag{Name: "last-name"},
		},
		Action: func(c *cli.Context) error {
			u, err := stateFrom(c).SignUp(c.Context, authTypes.SignupRequest{
				Email:     c.String("email"),
				Password:  c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Signed up as %s\n", u.Email)
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in, as a customer or with --admin as an operator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.BoolFlag{Name: "admin"},
		},
		Action: func(c *cli.Context) error {
			state := stateFrom(c)
			signIn := state.SignIn
			if c.Bool("admin") {
				signIn = state.SignInAdmin
			}
			u, err := signIn(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			if c.Bool("admin") {
				fmt.Fprintf(c.App.Writer, "Signed in as admin %s\n", u.Email)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "Signed in as %s\n", u.Email)
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed in account as the server sees it",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "admin"},
		},
		Action: func(c *cli.Context) error {
			state := stateFrom(c)
			session, client := state.Session, state.Customer
			if c.Bool("admin") {
				session, client = state.AdminSession, state.Admin
			}
			if !session.IsAuthenticated() {
				return app.ErrNotSignedIn
			}
			u, err := client.Profile(c.Context)
			if err != nil {
				return err
			}
			role := "customer"
			if u.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(c.App.Writer, "%s (%s)\n", u.Email, role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the customer session, or the admin session with --admin",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "admin"},
		},
		Action: func(c *cli.Context) error {
			state := stateFrom(c)
			if c.Bool("admin") {
				state.SignOutAdmin(c.Context)
			} else {
				state.SignOut(c.Context)
			}
			fmt.Fprintln(c.App.Writer, "Signed out")
			return nil
		},
	}
}

func partyFlags(prefix string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: prefix + "-name"},
		&cli.StringFlag{Name: prefix + "-street"},
		&cli.StringFlag{Name: prefix + "-city"},
		&cli.StringFlag{Name: prefix + "-state"},
		&cli.StringFlag{Name: prefix + "-pincode"},
		&cli.StringFlag{Name: prefix + "-country", Value: "India"},
		&cli.StringFlag{Name: prefix + "-phone"},
	}
}

func partyFrom(c *cli.Context, prefix string) shipmentTypes.PartyRequest {
	return shipmentTypes.PartyRequest{
		Name:    c.String(prefix + "-name"),
		Street:  c.String(prefix + "-street"),
		City:    c.String(prefix + "-city"),
		State:   c.String(prefix + "-state"),
		Pincode: c.String(prefix + "-pincode"),
		Country: c.String(prefix + "-country"),
		Phone:   c.String(prefix + "-phone"),
	}
}

// bookingRequest reads the form from --file when given, otherwise from flags
func bookingRequest(c *cli.Context) (shipmentTypes.CreateShipmentRequest, error) {
	var req shipmentTypes.CreateShipmentRequest
	if path := c.String("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, fmt.Errorf("decode %s: %w", path, err)
		}
		return req, nil
	}

	req.Sender = partyFrom(c, "sender")
	req.Receiver = partyFrom(c, "receiver")
	req.Package = shipmentTypes.PackageRequest{
		Weight: c.Float64("weight"),
		Width:  c.Float64("width"),
		Height: c.Float64("height"),
		Length: c.Float64("length"),
	}
	req.PickupDate = c.String("pickup")
	if req.PickupDate == "" {
		req.PickupDate = time.Now().Format("2006-01-02")
	}
	req.ServiceType = shipment.ServiceTier(c.String("service"))
	return req, nil
}

func bookCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "file", Usage: "JSON booking form"},
		&cli.Float64Flag{Name: "weight", Usage: "kg"},
		&cli.Float64Flag{Name: "width", Usage: "cm"},
		&cli.Float64Flag{Name: "height", Usage: "cm"},
		&cli.Float64Flag{Name: "length", Usage: "cm"},
		&cli.StringFlag{Name: "pickup", Usage: "pickup date, YYYY-MM-DD (default today)"},
		&cli.StringFlag{Name: "service", Value: string(shipment.ServiceStandard), Usage: "Standard or Express"},
	}
	flags = append(flags, partyFlags("sender")...)
	flags = append(flags, partyFlags("receiver")...)

	return &cli.Command{
		Name:  "book",
		Usage: "book a shipment",
		Flags: flags,
		Action: func(c *cli.Context) error {
			req, err := bookingRequest(c)
			if err != nil {
				return err
			}
			s, err := stateFrom(c).Book(c.Context, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Booked %s\n", s.Code)
			printShipment(c.App.Writer, s)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list your shipments, newest first",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "offline", Usage: "show the stored list without asking the server"},
		},
		Action: func(c *cli.Context) error {
			state := stateFrom(c)
			list := state.Shipments.Shipments()
			if !c.Bool("offline") {
				var err error
				if list, err = state.Sync(c.Context); err != nil {
					return err
				}
			}
			printShipments(c.App.Writer, list)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "show one shipment, fresh from the server while signed in",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}
			s, found, err := stateFrom(c).Shipment(c.Context, id)
			if err != nil {
				return err
			}
			if !found {
				return notFound(id)
			}
			printShipment(c.App.Writer, s)
			return nil
		},
	}
}

func trackCommand() *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "show the tracking history of a shipment",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}
			s, steps, found, err := stateFrom(c).History(c.Context, id)
			if err != nil {
				return err
			}
			if !found {
				return notFound(id)
			}
			fmt.Fprintf(c.App.Writer, "%s  %s\n", s.Code, s.Stage)
			printSteps(c.App.Writer, steps)
			if current, ok := tracking.Current(steps); ok {
				fmt.Fprintf(c.App.Writer, "Now: %s at %s\n", current.Stage, current.Location)
			}
			return nil
		},
	}
}

func invoiceCommand() *cli.Command {
	return &cli.Command{
		Name:      "invoice",
		Usage:     "show the invoice of a shipment, or save it as PDF with --pdf",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pdf", Usage: "write the server rendered PDF to this path"},
		},
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}
			state := stateFrom(c)

			if out := c.String("pdf"); out != "" {
				raw, err := state.Customer.InvoicePDF(c.Context, id)
				if courier.IsStatus(err, http.StatusNotFound) {
					return notFound(id)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, raw, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Saved %s\n", filepath.Clean(out))
				return nil
			}

			inv, found, err := state.Invoice(c.Context, id)
			if err != nil {
				return err
			}
			if !found {
				return notFound(id)
			}
			printInvoice(c.App.Writer, inv)
			return nil
		},
	}
}
