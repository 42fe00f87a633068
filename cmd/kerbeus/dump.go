package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/vault"
)

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	path := fs.String("vault", "", "vault file to read")
	pname := fs.String("pname", "", "only credentials whose client principal matches (e.g. alice or alice/admin)")
	sname := fs.String("sname", "", "only credentials whose service name matches, slash-separated (e.g. krbtgt/DOMAIN.COM)")
	srealm := fs.String("srealm", "", "only credentials whose service realm matches")
	etype := fs.Int("etype", 0, "only credentials encrypted with this etype number")
	serviceContains := fs.String("service-contains", "", "only credentials whose service string contains this substring")
	tgtsOnly := fs.Bool("tgts-only", false, "only TGTs (any realm)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errs.NewStringError("-vault is required")
	}

	creds, err := vault.NewFileVault(*path).Dump()
	if err != nil {
		return err
	}
	creds = applyDumpFilters(creds, *pname, *sname, *srealm, *etype, *serviceContains, *tgtsOnly)

	for _, c := range creds {
		kind := "ticket"
		if c.IsTGT() {
			kind = "TGT"
		}
		fmt.Printf("%-5s %-30s -> %-30s  %s .. %s\n",
			kind, strings.Join(c.CredInfo.PName.NameString, "/")+"@"+c.CredInfo.PRealm, c.ServiceString(),
			c.CredInfo.StartTime, c.CredInfo.EndTime)
	}
	return nil
}

// applyDumpFilters narrows creds to whichever of the dump flags were set,
// in flag declaration order. Each filter is a no-op unless its flag was
// given a non-zero value.
func applyDumpFilters(creds credtypes.TicketCreds, pname, sname, srealm string, etype int, serviceContains string, tgtsOnly bool) credtypes.TicketCreds {
	if pname != "" {
		creds = creds.ByPname(pname)
	}
	if sname != "" {
		creds = creds.BySname(strings.Split(sname, "/")...)
	}
	if srealm != "" {
		creds = creds.BySrealm(srealm)
	}
	if etype != 0 {
		creds = creds.ByEtype(int32(etype))
	}
	if serviceContains != "" {
		creds = creds.ByServiceSubstring(serviceContains)
	}
	if tgtsOnly {
		creds = creds.TGTs()
	}
	return creds
}
