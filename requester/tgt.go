package requester

import (
	"context"
	"errors"

	"github.com/jcmturner/gokrb5/v8/iana/errorcode"
	"github.com/sirupsen/logrus"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/responsedecoder"
)

// RequestTGT asks realm's KDC for a TGT for user, authenticating with key.
// preferredEtype selects the etype offered first (and the one the derived
// cipher targets); zero means AES256.
//
// On KDC_ERR_PREAUTH_REQUIRED, the default-salted attempt is retried exactly
// once using the salt the KDC names in its ETYPE-INFO2 PA-DATA — this is the
// one documented retry policy requester implements; everything past it
// belongs to orchestrator.
func RequestTGT(ctx context.Context, comm *channel.KdcComm, user krbuser.KrbUser, key krbuser.Key, preferredEtype int32) (credtypes.TicketCred, error) {
	if preferredEtype == 0 {
		preferredEtype = DefaultEtypes[0]
	}

	c, err := cipher.DeriveCipher(key, user, preferredEtype, nil)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	asRep, err := RequestASRep(ctx, comm, user, c, []int32{preferredEtype})
	if err != nil {
		var kerr *errs.KrbError
		if errors.As(err, &kerr) && kerr.Code == errorcode.KDC_ERR_PREAUTH_REQUIRED {
			if salt, ok := etypeInfo2SaltFor(kerr.EData, preferredEtype); ok {
				logrus.WithFields(logrus.Fields{"user": user.Name(), "realm": user.Realm()}).
					Warn("retrying AS-REQ with KDC-supplied salt after PREAUTH_REQUIRED")
				c, err = cipher.DeriveCipher(key, user, preferredEtype, []byte(salt))
				if err != nil {
					return credtypes.TicketCred{}, err
				}
				asRep, err = RequestASRep(ctx, comm, user, c, []int32{preferredEtype})
			}
		}
		if err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return responsedecoder.DecryptASRep(asRep, c)
}
