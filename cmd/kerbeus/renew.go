package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/messageforge"
)

func runRenew(args []string) error {
	fs := flag.NewFlagSet("renew", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "username whose cached TGT should be renewed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyLogLevel()

	if common.vaultPath == "" {
		return errs.NewStringError("-vault is required: renew reads and rewrites the cached TGT")
	}

	o, err := common.orchestrator()
	if err != nil {
		return err
	}

	cached, err := o.Vault.GetUserTGTs(messageforge.NTPrincipal(*user), common.realm)
	if err != nil {
		return err
	}
	if len(cached) == 0 {
		return errs.NewStringError("no cached TGT for %s@%s in %s", *user, common.realm, common.vaultPath)
	}

	renewed, err := o.AskRenew(context.Background(), cached[0])
	if err != nil {
		return err
	}

	fmt.Printf("renewed TGT for %s@%s valid until %s\n", *user, common.realm, renewed.CredInfo.EndTime)
	return nil
}
