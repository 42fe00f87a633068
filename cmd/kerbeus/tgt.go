package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func runAskTGT(args []string) error {
	fs := flag.NewFlagSet("asktgt", flag.ExitOnError)
	var common commonFlags
	var key keyFlags
	common.register(fs)
	key.register(fs)
	user := fs.String("user", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyLogLevel()

	o, err := common.orchestrator()
	if err != nil {
		return err
	}

	principal := krbuser.NewKrbUser(*user, common.realm)
	k, err := key.resolve(principal)
	if err != nil {
		return err
	}

	cred, err := o.AskTGT(context.Background(), principal, k)
	if err != nil {
		return err
	}

	fmt.Printf("TGT for %s@%s valid until %s\n", *user, common.realm, cred.CredInfo.EndTime)
	return nil
}
