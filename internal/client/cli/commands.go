package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/filex"
	"github.com/dmitrijs2005/telepharmacy/internal/netx"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

const (
	// deleteConfirmation must be typed verbatim before an account is deleted.
	deleteConfirmation = "DELETE MY ACCOUNT"
	maxPhotoSize       = 5 << 20
)

var errCancelled = errors.New("cancelled")

// Test seams.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// password reads a secret and returns it as a string, wiping the buffer.
func (a *App) password(text string) (string, error) {
	pw, err := getPassword(text, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	name, err := a.prompt("Display name")
	if err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	confirm, err := a.password("Repeat password")
	if err != nil {
		return err
	}
	if pw != confirm {
		return errors.New("passwords do not match")
	}

	u, err := a.auth.Register(ctx, email, pw, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered as %s\n", u.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}

	u, err := a.auth.Login(ctx, email, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s\n", displayName(u))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return common.ErrNoAuthenticatedUser
	}
	printUser(a.out, u)
	return nil
}

func (a *App) Update(ctx context.Context) error {
	lines, err := GetFields(a.reader, a.out)
	if err != nil {
		return err
	}
	patch, err := parseFields(lines)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return errCancelled
	}

	u, err := a.auth.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) Email(ctx context.Context) error {
	email, err := a.prompt("New email")
	if err != nil {
		return err
	}
	pw, err := a.password("Current password")
	if err != nil {
		return err
	}

	u, err := a.auth.UpdateEmail(ctx, pw, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Email changed to %s\n", u.Email)
	return nil
}

func (a *App) Password(ctx context.Context) error {
	current, err := a.password("Current password")
	if err != nil {
		return err
	}
	next, err := a.password("New password")
	if err != nil {
		return err
	}

	if err := a.auth.UpdatePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	confirm, err := a.prompt(fmt.Sprintf("Type %q to delete your account", deleteConfirmation))
	if err != nil {
		return err
	}
	if confirm != deleteConfirmation {
		return errCancelled
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}

	if err := a.auth.DeleteAccount(ctx, pw); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

func (a *App) Token(ctx context.Context) error {
	tok, err := a.auth.IDToken(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}

// Photo uploads a local image through a presigned URL and points the
// profile at it. With no path it only prints the upload URL.
func (a *App) Photo(ctx context.Context) error {
	path, err := a.prompt("Path to image (empty to print the upload URL only)")
	if err != nil {
		return err
	}

	up, err := a.auth.PreparePhotoUpload(ctx)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintf(a.out, "Upload with: PUT %s\n", up.UploadURL)
		fmt.Fprintf(a.out, "Expires at:  %s\n", up.ExpiresAt.Format(time.RFC3339))
		fmt.Fprintf(a.out, "Then run 'update' with photoURL=%s\n", up.PhotoURL)
		return nil
	}

	body, err := filex.ReadFileLimited(path, maxPhotoSize)
	if err != nil {
		return err
	}
	if err := netx.UploadPresigned(ctx, up.UploadURL, http.DetectContentType(body), body); err != nil {
		return err
	}
	if _, err := a.auth.UpdateProfile(ctx, models.Fields{"photoURL": up.PhotoURL}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Photo uploaded: %s\n", up.PhotoURL)
	return nil
}

// Verify sends a verification email, or applies a code when one is entered.
func (a *App) Verify(ctx context.Context) error {
	code, err := a.prompt("Verification code (empty to request an email)")
	if err != nil {
		return err
	}
	if code == "" {
		if err := a.auth.SendVerificationEmail(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Verification email sent")
		return nil
	}
	if err := a.auth.ApplyVerificationCode(ctx, code); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Code applied")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	if err := a.auth.ResetPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a reset email is on its way")
	return nil
}

func displayName(u *models.SessionUser) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

func printUser(w io.Writer, u *models.SessionUser) {
	fmt.Fprintf(w, "%-16s %s\n", "uid", u.UID)
	fmt.Fprintf(w, "%-16s %s\n", "email", u.Email)
	fmt.Fprintf(w, "%-16s %s\n", "displayName", u.DisplayName)
	fmt.Fprintf(w, "%-16s %s\n", "phoneNumber", u.PhoneNumber)
	fmt.Fprintf(w, "%-16s %s\n", "photoURL", u.PhotoURL)
	fmt.Fprintf(w, "%-16s %s\n", "role", u.Role)
	fmt.Fprintf(w, "%-16s %t\n", "emailVerified", u.EmailVerified)
	fmt.Fprintf(w, "%-16s %t\n", "isActive", u.IsActive)

	keys := make([]string, 0, len(u.Extra))
	for k := range u.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-16s %v\n", k, u.Extra[k])
	}
}
