package requester

import (
	"context"

	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/messageforge"
)

// RequestRegularTGS asks for a ticket to sname: the plain TGS-REQ with no
// S4U extension.
func RequestRegularTGS(ctx context.Context, comm *channel.KdcComm, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, sname types.PrincipalName, etypes []int32) (credtypes.TicketCred, error) {
	selector := messageforge.S4USelector{Kind: messageforge.S4UNone, ServiceName: sname}
	return RequestTGS(ctx, comm, tgt, sessionCipher, selector, etypes)
}

// RequestS4U2SelfTGS asks, on behalf of tgt's owner, for a ticket to the
// requester's own service impersonating targetUser — the first leg of
// constrained delegation.
func RequestS4U2SelfTGS(ctx context.Context, comm *channel.KdcComm, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, targetUser types.PrincipalName, targetUserRealm, userService string, etypes []int32) (credtypes.TicketCred, error) {
	selector := messageforge.S4USelector{
		Kind:            messageforge.S4U2Self,
		TargetUser:      targetUser,
		TargetUserRealm: targetUserRealm,
		UserService:     userService,
	}
	return RequestTGS(ctx, comm, tgt, sessionCipher, selector, etypes)
}

// RequestS4U2ProxyTGS redeems an S4U2Self ticket (selfTicket) for a ticket
// to sname via constrained delegation, presenting tgt alongside it.
func RequestS4U2ProxyTGS(ctx context.Context, comm *channel.KdcComm, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, selfTicket types.Ticket, sname types.PrincipalName, etypes []int32) (credtypes.TicketCred, error) {
	selector := messageforge.S4USelector{
		Kind:             messageforge.S4U2Proxy,
		AdditionalTicket: selfTicket,
		ServiceName:      sname,
	}
	return RequestTGS(ctx, comm, tgt, sessionCipher, selector, etypes)
}
