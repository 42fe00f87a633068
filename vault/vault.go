// Package vault implements the polymorphic credential store: a capability
// interface with three concrete shapes (File, Memory, Empty) rather than a
// class hierarchy. Grounded on credstore.go's approach, which frames
// credential persistence as store-backed options rather than inheritance.
package vault

import (
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
)

// Vault is the capability set every credential store implementation
// provides.
type Vault interface {
	// ID identifies this vault instance, e.g. a filename or "memory".
	ID() string

	// SupportedFormat reports the format the vault's current contents are
	// held in, if that is meaningful for this vault shape. Memory and
	// Empty vaults have no on-disk format and report ok=false.
	SupportedFormat() (formatcodec.Format, bool)

	// Add appends one credential.
	Add(cred credtypes.TicketCred) error

	// Dump returns every credential currently held.
	Dump() (credtypes.TicketCreds, error)

	// Save persists creds, replacing the vault's prior contents, in
	// whatever format the vault is already using.
	Save(creds credtypes.TicketCreds) error

	// SaveAs persists creds in the given format, becoming the vault's
	// format from this point on. Round-trips through serialize-then-parse
	// to normalize field encodings; a parse failure here is fatal.
	SaveAs(creds credtypes.TicketCreds, format formatcodec.Format) error

	// ChangeFormat re-saves the vault's current contents in format; it is
	// exactly SaveAs(Dump(), format).
	ChangeFormat(format formatcodec.Format) error

	// GetUserTGTs returns TGTs belonging to user for user's own realm.
	GetUserTGTs(user types.PrincipalName, realm string) (credtypes.TicketCreds, error)

	// S4U2SelfTGSs returns S4U2Self tickets impersonating impersonateUser,
	// scoped to realm, whose service is userService (nt_srv_inst) if given
	// or the nt_enterprise name for user otherwise.
	S4U2SelfTGSs(user, impersonateUser types.PrincipalName, realm, userService string) (credtypes.TicketCreds, error)
}

// ChangeFormat is the shared Dump-then-SaveAs implementation every Vault
// shape composes with: it is not itself a method so each shape's ChangeFormat
// can delegate here without reimplementing the round-trip.
func changeFormat(v Vault, format formatcodec.Format) error {
	creds, err := v.Dump()
	if err != nil {
		return err
	}
	return v.SaveAs(creds, format)
}

func userTGTs(creds credtypes.TicketCreds, user types.PrincipalName, realm string) credtypes.TicketCreds {
	return creds.UserTGTs(principalString(user), realm)
}

func s4u2SelfTGSs(creds credtypes.TicketCreds, user, impersonateUser types.PrincipalName, realm, userService string) credtypes.TicketCreds {
	return creds.S4U2SelfTGSs(principalString(impersonateUser), principalString(user), userService, realm)
}

func principalString(p types.PrincipalName) string {
	if len(p.NameString) == 0 {
		return ""
	}
	name := p.NameString[0]
	for _, label := range p.NameString[1:] {
		name += "/" + label
	}
	return name
}
