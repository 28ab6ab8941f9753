package key

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/sync/singleflight"
)

// Signer is the wallet collaborator. Sign suspends until the user approves
// or rejects the request in their wallet and returns a 0x-prefixed hex
// signature over message.
type Signer interface {
	Sign(ctx context.Context, message string) (string, error)
}

// Deriver derives key pairs on demand, one wallet address at a time.
// Concurrent requests for the same address are coalesced into a single
// wallet prompt; callers all receive the same pending result. An optional
// session store caches the raw scalar across derivations.
type Deriver struct {
	signer Signer
	store  Store
	group  singleflight.Group
}

// NewDeriver builds a Deriver. store may be nil, in which case every call
// prompts the wallet.
func NewDeriver(signer Signer, store Store) *Deriver {
	return &Deriver{signer: signer, store: store}
}

// Pair returns the key pair for addr, deriving it through the wallet signer
// if it is not already in the session store.
func (d *Deriver) Pair(ctx context.Context, addr common.Address) (*Pair, error) {
	cacheKey := strings.ToLower(addr.Hex())
	if d.store != nil {
		raw, ok, err := d.store.Get(cacheKey)
		if err != nil {
			// fall through to a fresh derivation, but leave a trace so a
			// corrupt store does not silently re-prompt the wallet forever
			log.Warnw("session store read failed", "address", cacheKey, "err", err.Error())
		} else if ok {
			sk, parseOK := new(big.Int).SetString(raw, 10)
			if parseOK && sk.Sign() > 0 {
				return NewPair(sk), nil
			}
		}
	}

	v, err, _ := d.group.Do(cacheKey, func() (any, error) {
		sig, err := d.signer.Sign(ctx, RegistrationMessage(addr))
		if err != nil {
			return nil, fmt.Errorf("wallet signature request failed: %w", err)
		}
		sk, err := DeriveFromSignature(sig)
		if err != nil {
			return nil, err
		}
		if d.store != nil {
			if err := d.store.Put(cacheKey, sk.String()); err != nil {
				return nil, fmt.Errorf("session store write failed: %w", err)
			}
		}
		return NewPair(sk), nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.(*Pair), nil
}

// Forget drops the cached key for addr from the session store, forcing the
// next Pair call to re-prompt the wallet.
func (d *Deriver) Forget(addr common.Address) error {
	if d.store == nil {
		return nil
	}
	return d.store.Delete(strings.ToLower(addr.Hex()))
}
