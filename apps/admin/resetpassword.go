package main

import (
	"context"
)

func (cli *commandLine) resetPassword(role, uname, pwd string) error {
	return cli.accountSvc.ResetPassword(context.Background(), role, uname, pwd)
}
