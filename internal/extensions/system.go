package extensions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/termext/internal/ext"
)

func settings() ext.Extension {
	return ext.Extension{
		Name:  "settings",
		Title: "Settings",
		Commands: []ext.Command{{
			Name:     "profile",
			Title:    "Edit Profile",
			Subtitle: "Form with validation",
			View:     profileView,
		}},
	}
}

var profileFields = []ext.Field{
	{ID: "name", Title: "Name", Placeholder: "Ada Lovelace", Required: true},
	{ID: "email", Title: "Email", Placeholder: "ada@example.com", Info: "Used for notifications"},
	{ID: "token", Title: "API Token", Kind: ext.FieldPassword},
	{ID: "notify", Title: "Send notifications", Kind: ext.FieldCheckbox, Default: "true"},
}

func profileView(ctx *ext.Context) (ext.View, error) {
	fields := make([]ext.Field, len(profileFields))
	copy(fields, profileFields)
	store := ctx.Cache()
	for i, f := range fields {
		if v, err := store.Get(f.ID); err == nil {
			fields[i].Default = v
		}
	}
	return &ext.Form{
		Title:  "Profile",
		Fields: fields,
		Submit: "Save Profile",
		OnSubmit: func(ctx *ext.Context) error {
			if email := ctx.FormValues["email"]; email != "" && !strings.Contains(email, "@") {
				return fmt.Errorf("%q is not an email address", email)
			}
			for _, f := range fields {
				if err := ctx.Cache().Set(f.ID, ctx.FormValues[f.ID]); err != nil {
					return err
				}
			}
			ctx.ShowToast(ext.Toast{Title: "Profile saved", Message: ctx.FormValues["name"]})
			ctx.Pop()
			return nil
		},
	}, nil
}

func system() ext.Extension {
	return ext.Extension{
		Name:  "system",
		Title: "System",
		Commands: []ext.Command{
			{
				Name:     "hello",
				Title:    "Say Hello",
				Subtitle: "Runs without a view",
				Run: func(ctx *ext.Context) error {
					ctx.ShowHUD("Hello from termext")
					return nil
				},
			},
			{
				Name:     "sign-out",
				Title:    "Sign Out",
				Subtitle: "Asks for confirmation",
				Run: func(ctx *ext.Context) error {
					ctx.ConfirmAlert(ext.Alert{
						Title:        "Sign out?",
						Message:      "You will need your API token to sign back in.",
						ConfirmTitle: "Sign Out",
						Destructive:  true,
						OnConfirm: func(ctx *ext.Context) error {
							ctx.ShowToast(ext.Toast{Title: "Signed out"})
							return nil
						},
						OnCancel: func(ctx *ext.Context) error {
							ctx.ShowHUD("Still signed in")
							return nil
						},
					})
					return nil
				},
			},
			{
				Name:     "unavailable",
				Title:    "Unavailable View",
				Subtitle: "Fails to resolve",
				View: func(*ext.Context) (ext.View, error) {
					return nil, errors.New("backend unavailable")
				},
			},
		},
	}
}
