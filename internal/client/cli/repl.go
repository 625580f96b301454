package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/client/ledger"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Company(ctx context.Context, args []string) error
	QR(ctx context.Context) error
	Directory(ctx context.Context, args []string) error
	Scan(ctx context.Context, args []string) error
	Contacts(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error
	Meet(ctx context.Context, args []string) error
	Remind(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Category(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, forgot, reset, scan, (c)ontacts, show, note, meet, remind, status, category, remove, export, exit"
	helpUser  = "Available commands: profile, company, qr, directory, scan, (c)ontacts, show, note, meet, remind, status, category, remove, export, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the BitNet CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the rest as arguments. The loop exits on EOF or when the user types
// "exit" or "quit". Command errors are reported and the loop continues.
//
// Commands that need the server (profile, company, qr, directory, logout)
// are refused until the user logs in. The ledger commands work offline:
//
//	scan file <path> [category] | scan text [category]
//	contacts [category=<c>] [industry=<i>] [search words...]
//	show|remove <companyId>
//	note|meet|remind <companyId>
//	status <companyId> <initial|contacted|active|follow-up|closed>
//	category <companyId> <category>
//	export <csv|vcard|pdf> [filters as for contacts]
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bitnet %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "profile", "company", "qr", "directory", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			switch cmd {
			case "profile":
				cmdErr = a.Profile(ctx, args)
			case "company":
				cmdErr = a.Company(ctx, args)
			case "qr":
				cmdErr = a.QR(ctx)
			case "directory":
				cmdErr = a.Directory(ctx, args)
			case "logout":
				cmdErr = a.Logout(ctx)
			}

		case "scan":
			cmdErr = a.Scan(ctx, args)
		case "c", "contacts":
			cmdErr = a.Contacts(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "note":
			cmdErr = a.Note(ctx, args)
		case "meet":
			cmdErr = a.Meet(ctx, args)
		case "remind":
			cmdErr = a.Remind(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "category":
			cmdErr = a.Category(ctx, args)
		case "remove":
			cmdErr = a.Remove(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}
	}
}

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return "usage: " + string(usage)
	case errors.Is(err, exchange.ErrNoCodeFound),
		errors.Is(err, exchange.ErrUnsupportedPayload),
		errors.Is(err, exchange.ErrWrongMarker):
		return "could not read a BitNet company QR code, please try again (" + err.Error() + ")"
	case errors.Is(err, ledger.ErrContactNotFound):
		return "no saved contact with that company id"
	case errors.Is(err, ledger.ErrUnreadable):
		return "saved contacts could not be read, nothing was changed; try again"
	case errors.Is(err, api.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, api.ErrUnauthorized):
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "please log in again"
	default:
		if m := common.Message(err); m != "" {
			return m
		}
		return err.Error()
	}
}

// usageError reports a malformed command line.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }
