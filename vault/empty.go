package vault

import (
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
)

// EmptyVault accepts and discards everything. It exists as the reference
// implementation for callers that want orchestrator's flows (kerberoasting,
// brute-forcing) without persisting any resulting credential anywhere.
type EmptyVault struct{}

func NewEmptyVault() EmptyVault { return EmptyVault{} }

func (EmptyVault) ID() string { return "empty" }

func (EmptyVault) SupportedFormat() (formatcodec.Format, bool) { return 0, false }

func (EmptyVault) Add(credtypes.TicketCred) error { return nil }

func (EmptyVault) Dump() (credtypes.TicketCreds, error) { return nil, nil }

func (EmptyVault) Save(credtypes.TicketCreds) error { return nil }

func (EmptyVault) SaveAs(credtypes.TicketCreds, formatcodec.Format) error { return nil }

func (EmptyVault) ChangeFormat(formatcodec.Format) error { return nil }

func (EmptyVault) GetUserTGTs(types.PrincipalName, string) (credtypes.TicketCreds, error) {
	return nil, nil
}

func (EmptyVault) S4U2SelfTGSs(types.PrincipalName, types.PrincipalName, string, string) (credtypes.TicketCreds, error) {
	return nil, nil
}
