package key

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"

	"github.com/stealthswap/eerc-primitives/curve"
)

// 0x-prefixed 65-byte dummy signature, 132 hex chars
var fixedSignature = "0x" + strings.Repeat("abc123", 21) + "abcd"

func TestDeriveDeterministic(t *testing.T) {
	c := qt.New(t)
	a, err := DeriveFromSignature(fixedSignature)
	c.Assert(err, qt.IsNil)
	b, err := DeriveFromSignature(fixedSignature)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Cmp(b), qt.Equals, 0)
	c.Assert(a.Sign() > 0, qt.IsTrue)
	c.Assert(a.Cmp(curve.SubOrder) < 0, qt.IsTrue)
}

func TestDeriveGoldenVector(t *testing.T) {
	c := qt.New(t)
	sk, err := DeriveFromSignature(fixedSignature)
	c.Assert(err, qt.IsNil)

	// keccak256 of the signature bytes, Edwards-clamped, little-endian,
	// reduced modulo SubOrder; computed with an independent implementation
	want, ok := new(big.Int).SetString(
		"583784108455515483851768597667588052695573042531058902937039374591885343677", 10)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sk.Cmp(want), qt.Equals, 0)
}

func TestDeriveDistinctSignatures(t *testing.T) {
	c := qt.New(t)
	a, err := DeriveFromSignature("0x" + strings.Repeat("11", 65))
	c.Assert(err, qt.IsNil)
	b, err := DeriveFromSignature("0x" + strings.Repeat("22", 65))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Cmp(b), qt.Not(qt.Equals), 0)
}

func TestDeriveRejectsMalformed(t *testing.T) {
	c := qt.New(t)
	_, err := DeriveFromSignature("0x1234")
	c.Assert(err, qt.IsNotNil)
	_, err = DeriveFromSignature(strings.Repeat("ab", 66))
	c.Assert(err, qt.IsNotNil)
	_, err = DeriveFromSignature("0x" + strings.Repeat("zz", 65))
	c.Assert(err, qt.IsNotNil)
}

func TestPairPublicKeyMatchesFormatted(t *testing.T) {
	c := qt.New(t)
	raw, err := DeriveFromSignature(fixedSignature)
	c.Assert(err, qt.IsNil)
	pair := NewPair(raw)
	c.Assert(pair.Formatted.Cmp(curve.SubOrder) < 0, qt.IsTrue)
	expected := curve.ScalarMul(curve.Base(), pair.Formatted)
	c.Assert(curve.Equal(pair.PublicKey, expected), qt.IsTrue)
}

func TestRegistrationMessageLowercasesAddress(t *testing.T) {
	c := qt.New(t)
	addr := common.HexToAddress("0xAbCd000000000000000000000000000000001234")
	msg := RegistrationMessage(addr)
	c.Assert(msg, qt.Equals, "eERC\nRegistering user with\n Address:0xabcd000000000000000000000000000000001234")
}

type stubSigner struct {
	mu    sync.Mutex
	calls atomic.Int64
	block chan struct{}
}

func (s *stubSigner) Sign(_ context.Context, message string) (string, error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	// deterministic per-message signature
	digest := fmt.Sprintf("%0130x", new(big.Int).SetBytes([]byte(message)))
	return "0x" + digest[:130], nil
}

func TestDeriverCoalescesConcurrentRequests(t *testing.T) {
	c := qt.New(t)
	signer := &stubSigner{block: make(chan struct{})}
	d := NewDeriver(signer, NewMemoryStore())
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	const callers = 8
	results := make(chan *Pair, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			p, err := d.Pair(context.Background(), addr)
			results <- p
			errs <- err
		}()
	}
	close(signer.block)

	var first *Pair
	for i := 0; i < callers; i++ {
		c.Assert(<-errs, qt.IsNil)
		p := <-results
		if first == nil {
			first = p
		}
		c.Assert(p.PrivateKey.Cmp(first.PrivateKey), qt.Equals, 0)
	}
	// one signature prompt for all callers
	c.Assert(signer.calls.Load(), qt.Equals, int64(1))
}

// failingStore rejects every read, as a corrupt session store would.
type failingStore struct {
	Store
}

func (s *failingStore) Get(string) (string, bool, error) {
	return "", false, fmt.Errorf("corrupt session store")
}

func TestDeriverFallsBackOnStoreReadError(t *testing.T) {
	c := qt.New(t)
	signer := &stubSigner{}
	d := NewDeriver(signer, &failingStore{Store: NewMemoryStore()})
	addr := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	p1, err := d.Pair(context.Background(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(signer.calls.Load(), qt.Equals, int64(1))

	// reads keep failing, so every call re-prompts but still derives
	p2, err := d.Pair(context.Background(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(signer.calls.Load(), qt.Equals, int64(2))
	c.Assert(p1.PrivateKey.Cmp(p2.PrivateKey), qt.Equals, 0)
}

func TestDeriverUsesSessionStore(t *testing.T) {
	c := qt.New(t)
	signer := &stubSigner{}
	store := NewMemoryStore()
	d := NewDeriver(signer, store)
	addr := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	p1, err := d.Pair(context.Background(), addr)
	c.Assert(err, qt.IsNil)
	p2, err := d.Pair(context.Background(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(p1.PrivateKey.Cmp(p2.PrivateKey), qt.Equals, 0)
	c.Assert(signer.calls.Load(), qt.Equals, int64(1))

	// stored as a decimal string under the lowercase address
	v, ok, err := store.Get(strings.ToLower(addr.Hex()))
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, p1.PrivateKey.String())

	c.Assert(d.Forget(addr), qt.IsNil)
	_, err = d.Pair(context.Background(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(signer.calls.Load(), qt.Equals, int64(2))
}
