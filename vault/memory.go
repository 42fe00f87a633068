package vault

import (
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
)

// MemoryVault holds credentials in-process only; it has no on-disk format
// and is owned exclusively by one caller, per the no-internal-synchronization
// resource model.
type MemoryVault struct {
	id    string
	creds credtypes.TicketCreds
}

// NewMemoryVault builds an empty in-memory vault identified by id (used only
// for logging/diagnostics, e.g. "s4u-scratch").
func NewMemoryVault(id string) *MemoryVault {
	return &MemoryVault{id: id}
}

func (v *MemoryVault) ID() string { return v.id }

func (v *MemoryVault) SupportedFormat() (formatcodec.Format, bool) { return 0, false }

func (v *MemoryVault) Add(cred credtypes.TicketCred) error {
	v.creds = append(v.creds, cred)
	return nil
}

func (v *MemoryVault) Dump() (credtypes.TicketCreds, error) {
	out := make(credtypes.TicketCreds, len(v.creds))
	for i, c := range v.creds {
		out[i] = c.Clone()
	}
	return out, nil
}

func (v *MemoryVault) Save(creds credtypes.TicketCreds) error {
	v.creds = append(credtypes.TicketCreds(nil), creds...)
	return nil
}

// SaveAs round-trips through format to normalize field encodings, matching
// File's behavior even though Memory has no persistent format of its own.
func (v *MemoryVault) SaveAs(creds credtypes.TicketCreds, format formatcodec.Format) error {
	encoded, err := formatcodec.Encode(creds, format)
	if err != nil {
		return err
	}
	decoded, err := formatcodec.Decode(encoded, format)
	if err != nil {
		return err
	}
	v.creds = decoded
	return nil
}

func (v *MemoryVault) ChangeFormat(format formatcodec.Format) error {
	return changeFormat(v, format)
}

func (v *MemoryVault) GetUserTGTs(user types.PrincipalName, realm string) (credtypes.TicketCreds, error) {
	return userTGTs(v.creds, user, realm), nil
}

func (v *MemoryVault) S4U2SelfTGSs(user, impersonateUser types.PrincipalName, realm, userService string) (credtypes.TicketCreds, error) {
	return s4u2SelfTGSs(v.creds, user, impersonateUser, realm, userService), nil
}
