package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/account"
)

// addAdmin creates an admin account, or resets its password when the
// username is already taken.
func (cli *commandLine) addAdmin(uname, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)

	if _, err := cli.accountSvc.GetAdminByUsername(ctx, uname); err == nil {
		return cli.accountSvc.ResetPassword(ctx, "admin", uname, pwd)
	} else if errors.Cause(err) != account.ErrNotFound {
		return err
	}

	data := account.NewAdmin{
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := data.Validate(ctx, cli.validate, cli.accountSvc); err != nil {
		return err
	}
	_, err := cli.accountSvc.RegisterAdmin(ctx, data)
	return err
}
