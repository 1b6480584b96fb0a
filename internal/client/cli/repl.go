package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/telepharmacy/internal/client/client"
	"github.com/dmitrijs2005/telepharmacy/internal/common"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Email(ctx context.Context) error
	Password(ctx context.Context) error
	Delete(ctx context.Context) error
	Token(ctx context.Context) error
	Photo(ctx context.Context) error
	Verify(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// Command errors are reported to w and the loop continues. It returns on
// EOF or on "exit"/"quit".
//
//	Not logged in: help, register, login, reset, exit
//	Logged in:     help, profile, update, email, password, verify, token,
//	               photo, delete, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "tp %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: profile, update, email, password, verify, token, photo, delete, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, reset, exit")
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "profile", "p":
			cmdErr = a.Profile(ctx)
		case "update":
			cmdErr = a.Update(ctx)
		case "email":
			cmdErr = a.Email(ctx)
		case "password":
			cmdErr = a.Password(ctx)
		case "delete":
			cmdErr = a.Delete(ctx)
		case "token":
			cmdErr = a.Token(ctx)
		case "photo":
			cmdErr = a.Photo(ctx)
		case "verify":
			cmdErr = a.Verify(ctx)
		case "reset":
			cmdErr = a.Reset(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", describeError(cmdErr))
		}
	}
}

// describeError gives the user-facing text for known failure kinds.
func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrEmailAlreadyInUse):
		return "this email is already registered"
	case errors.Is(err, common.ErrUserNotFound):
		return "no account with this email"
	case errors.Is(err, common.ErrWrongPassword):
		return "wrong password"
	case errors.Is(err, common.ErrProfileNotFound):
		return "no profile on record"
	case errors.Is(err, common.ErrNoAuthenticatedUser):
		return "please log in first"
	case errors.Is(err, common.ErrInvalidField):
		return err.Error()
	case errors.Is(err, common.ErrPhotoStorageDisabled):
		return "photo uploads are not available"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}
