package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
)

func runAskTGS(args []string) error {
	fs := flag.NewFlagSet("asktgs", flag.ExitOnError)
	var common commonFlags
	var key keyFlags
	common.register(fs)
	key.register(fs)
	user := fs.String("user", "", "username")
	spn := fs.String("spn", "", "target service principal name, e.g. cifs/host.domain.com")
	serviceRealm := fs.String("service-realm", "", "realm the service lives in (accepted but not consulted; the request goes to the TGT's realm)")
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

	cred, err := o.AskTGS(context.Background(), principal, k, messageforge.NTSrvInst(*spn), *serviceRealm)
	if err != nil {
		return err
	}

	fmt.Printf("service ticket for %s valid until %s\n", cred.ServiceString(), cred.CredInfo.EndTime)
	return nil
}
