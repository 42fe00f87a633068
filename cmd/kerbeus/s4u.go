package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
)

func runS4U2Self(args []string) error {
	fs := flag.NewFlagSet("s4u2self", flag.ExitOnError)
	var common commonFlags
	var key keyFlags
	common.register(fs)
	key.register(fs)
	user := fs.String("user", "", "the service account making the request")
	impersonate := fs.String("impersonate", "", "the user to impersonate")
	impersonateRealm := fs.String("impersonate-realm", "", "realm of the impersonated user, if different from -realm")
	userService := fs.String("user-service", "", "override the default nt_enterprise(user) target service")
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

	cred, err := o.AskS4U2Self(context.Background(), principal, k,
		messageforge.NTPrincipal(*impersonate), *impersonateRealm, *userService)
	if err != nil {
		return err
	}

	fmt.Printf("S4U2Self ticket impersonating %s, valid until %s\n", *impersonate, cred.CredInfo.EndTime)
	return nil
}

func runS4U2Proxy(args []string) error {
	fs := flag.NewFlagSet("s4u2proxy", flag.ExitOnError)
	var common commonFlags
	var key keyFlags
	common.register(fs)
	key.register(fs)
	user := fs.String("user", "", "the service account making the request")
	impersonate := fs.String("impersonate", "", "the user to impersonate")
	impersonateRealm := fs.String("impersonate-realm", "", "realm of the impersonated user, if different from -realm")
	userService := fs.String("user-service", "", "override the default nt_enterprise(user) target service")
	spn := fs.String("spn", "", "target service principal name to delegate to")
	serviceRealm := fs.String("service-realm", "", "realm the target service lives in (accepted but not consulted; a cross-realm service is reached by following the KDC's referral)")
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

	cred, err := o.AskS4U2Proxy(context.Background(), principal, k,
		messageforge.NTPrincipal(*impersonate), *impersonateRealm, *userService,
		messageforge.NTSrvInst(*spn), *serviceRealm)
	if err != nil {
		return err
	}

	fmt.Printf("S4U2Proxy ticket for %s impersonating %s, valid until %s\n", cred.ServiceString(), *impersonate, cred.CredInfo.EndTime)
	return nil
}
