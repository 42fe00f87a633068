package channel

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// KdcComm owns KDC communication for every realm it is asked about: the
// shared realm -> IP Kdcs cache
// (resolutions are cached after first use within the life of this value)
// and the transport preference to use once an address is known. It holds no
// other global state.
type KdcComm struct {
	Kdcs      *Kdcs
	Transport Transport
}

// NewKdcComm builds a KdcComm with an empty Kdcs cache, seeded with any
// realm -> IP pairs the caller already knows (e.g. from a CLI flag).
func NewKdcComm(transport Transport, seed map[string]string) *KdcComm {
	kdcs := NewKdcs()
	for realm, ip := range seed {
		kdcs.Set(realm, ip)
	}
	return &KdcComm{Kdcs: kdcs, Transport: transport}
}

// SendRecv resolves realm's KDC (consulting, then populating, the Kdcs
// cache) and performs one request/response exchange. Every call gets a
// correlation id purely for pairing the request/response log lines; it
// never crosses the wire.
func (k *KdcComm) SendRecv(ctx context.Context, realm string, req []byte) ([]byte, error) {
	corrID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"realm": realm, "corr_id": corrID})

	ip, err := ResolveRealm(ctx, k.Kdcs, realm)
	if err != nil {
		log.WithError(err).Warn("kdc resolution failed")
		return nil, err
	}

	var ch Channel
	if k.Transport == UDP {
		ch = NewUDPChannel(ip)
	} else {
		ch = NewTCPChannel(ip)
	}

	log.WithFields(logrus.Fields{"kdc": ip, "transport": k.Transport, "bytes_sent": len(req)}).Debug("sending kdc request")
	resp, err := ch.SendRecv(ctx, req)
	if err != nil {
		log.WithError(err).Debug("kdc exchange failed")
		return nil, err
	}
	log.WithField("bytes_recv", len(resp)).Debug("received kdc response")
	return resp, nil
}
