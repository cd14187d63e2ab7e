package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"courier-booking/httpServices/courier"
	"courier-booking/models/shipment"
	"courier-booking/store"
	adminTypes "courier-booking/types/admin"

	"github.com/urfave/cli/v2"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "operator commands, run login --admin first",
		Subcommands: []*cli.Command{
			adminListCommand(),
			adminStatusCommand(),
			{
				Name:  "qr",
				Usage: "manage the payment QR image",
				Subcommands: []*cli.Command{
					adminQRUploadCommand(),
					adminQRDownloadCommand(),
				},
			},
		},
	}
}

func writerNotifier(w io.Writer) store.Notifier {
	return store.NotifierFunc(func(n store.Notification) {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	})
}

func adminListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list all shipments",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Value: 10},
			&cli.StringFlag{Name: "q", Usage: "search id, names or cities"},
			&cli.StringFlag{Name: "status", Usage: "tracking stage, or all"},
			&cli.StringFlag{Name: "from", Usage: "booked on or after, YYYY-MM-DD"},
			&cli.StringFlag{Name: "to", Usage: "booked on or before, YYYY-MM-DD"},
		},
		Action: func(c *cli.Context) error {
			query := adminTypes.ListShipmentsQuery{
				Page:      c.Int("page"),
				Limit:     c.Int("limit"),
				Q:         c.String("q"),
				Status:    c.String("status"),
				StartDate: c.String("from"),
				EndDate:   c.String("to"),
			}
			if err := query.Validate(); err != nil {
				return err
			}

			orders, err := stateFrom(c).AdminOrders(writerNotifier(c.App.ErrWriter))
			if err != nil {
				return err
			}
			defer orders.Close()

			if err := orders.Load(c.Context, query); err != nil {
				return err
			}
			printPage(c.App.Writer, orders.Page())
			return nil
		},
	}
}

func parseStage(raw string) (shipment.TrackingStage, error) {
	for _, stage := range shipment.GetAllStages() {
		if strings.EqualFold(string(stage), strings.TrimSpace(raw)) {
			return stage, nil
		}
	}
	names := make([]string, 0, 5)
	for _, stage := range shipment.GetAllStages() {
		names = append(names, string(stage))
	}
	return "", fmt.Errorf("unknown stage %q, expected one of: %s", raw, strings.Join(names, ", "))
}

func adminStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "move a shipment to a new tracking stage",
		ArgsUsage: "ID STAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return errors.New("usage: admin status ID STAGE")
			}
			id := c.Args().Get(0)
			stage, err := parseStage(strings.Join(c.Args().Slice()[1:], " "))
			if err != nil {
				return err
			}

			orders, err := stateFrom(c).AdminOrders(writerNotifier(c.App.Writer))
			if err != nil {
				return err
			}
			defer orders.Close()

			// load the row so the defaults can name its cities
			if err := orders.Load(c.Context, adminTypes.ListShipmentsQuery{Page: 1, Q: id}); err != nil {
				return err
			}
			if err := orders.ChangeStatus(c.Context, id, stage); err != nil {
				return err
			}
			for _, s := range orders.Page().Shipments {
				if s.Code == id {
					fmt.Fprintf(c.App.Writer, "%s is now %s\n", id, s.Stage)
				}
			}
			return nil
		},
	}
}

func adminQRUploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload a PNG, JPEG or WebP payment QR image",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := requireArg(c, "FILE")
			if err != nil {
				return err
			}
			state := stateFrom(c)
			if !state.AdminSession.IsAuthenticated() {
				return errors.New("not signed in as admin")
			}

			f, err := readFile(path)
			if err != nil {
				return err
			}
			defer f.Close()

			qr, err := state.Admin.UploadQRCode(c.Context, filepath.Base(path), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Uploaded %s (%s, %d bytes)\n", qr.FileName, qr.MimeType, qr.Size)
			return nil
		},
	}
}

func adminQRDownloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "save the current payment QR image",
		ArgsUsage: "OUT",
		Action: func(c *cli.Context) error {
			out, err := requireArg(c, "OUT")
			if err != nil {
				return err
			}
			state := stateFrom(c)
			if !state.AdminSession.IsAuthenticated() {
				return errors.New("not signed in as admin")
			}

			raw, contentType, err := state.Admin.QRCode(c.Context)
			if errors.Is(err, courier.ErrNoQRCode) {
				fmt.Fprintln(c.App.Writer, "No QR code uploaded yet")
				return nil
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Saved %s (%s)\n", out, contentType)
			return nil
		},
	}
}
