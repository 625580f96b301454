package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// prompt reads one line for each label, stopping at the first error.
func (a *App) prompt(labels ...string) ([]string, error) {
	vals := make([]string, len(labels))
	for i, l := range labels {
		v, err := getSimpleText(a.reader, l, a.out)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// Register prompts for the account fields and creates the account. The new
// session is persisted, so the user is logged in afterwards.
func (a *App) Register(ctx context.Context) error {
	v, err := a.prompt("Enter email", "First name", "Last name", "Company (optional)", "Job title (optional)")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, api.RegisterRequest{
		Email:     v[0],
		Password:  string(password),
		FirstName: v[1],
		LastName:  v[2],
		Company:   v[3],
		JobTitle:  v[4],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Success! Logged in as %s\n", u.Email)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	u, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Login successful. Welcome, %s %s\n", u.FirstName, u.LastName)
	return nil
}

// Logout forgets the local session. Saved contacts stay on the device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	res, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	if res.ResetToken != "" {
		fmt.Fprintf(a.out, "Reset token: %s\n", res.ResetToken)
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if err := a.session.ResetPassword(ctx, token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password reset successful, you can log in now")
	return nil
}

// Profile shows the server profile, or edits it with "profile edit".
// Empty answers keep the current value.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		u, err := a.session.RefreshProfile(ctx)
		if err != nil {
			return err
		}
		printUser(a.out, u)
		return nil
	}
	if args[0] != "edit" {
		return usageError("profile [edit]")
	}

	labels := []string{"First name", "Last name", "Company", "Job title", "Bio", "Profile image URL", "LinkedIn URL"}
	v, err := a.prompt(labels...)
	if err != nil {
		return err
	}
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	u, err := a.session.UpdateProfile(ctx, models.ProfileUpdate{
		FirstName:       opt(v[0]),
		LastName:        opt(v[1]),
		Company:         opt(v[2]),
		JobTitle:        opt(v[3]),
		Bio:             opt(v[4]),
		ProfileImageURL: opt(v[5]),
		LinkedInURL:     opt(v[6]),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated successfully")
	printUser(a.out, u)
	return nil
}
