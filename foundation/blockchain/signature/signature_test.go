package signature_test

import (
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

// =============================================================================

func Test_SignVerify(t *testing.T) {
	data := []byte("the data to sign")

	t.Log("Given the need to sign and verify data.")
	{
		pk, err := crypto.HexToECDSA(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load a private key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load a private key.", success)

		sig, err := signature.Sign(data, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		if !signature.Verify(data, sig, signature.PublicKeyBytes(pk)) {
			t.Fatalf("\t%s\tShould be able to verify the signature.", failed)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		other, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a second key: %s", failed, err)
		}

		if signature.Verify(data, sig, signature.PublicKeyBytes(other)) {
			t.Fatalf("\t%s\tShould fail to verify with a different public key.", failed)
		}
		t.Logf("\t%s\tShould fail to verify with a different public key.", success)

		if signature.Verify([]byte("other data"), sig, signature.PublicKeyBytes(pk)) {
			t.Fatalf("\t%s\tShould fail to verify different data.", failed)
		}
		t.Logf("\t%s\tShould fail to verify different data.", success)
	}
}

func Test_VerifyMalformed(t *testing.T) {
	data := []byte("the data to sign")

	pk := signature.GenesisKey()
	sig, err := signature.Sign(data, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}
	pub := signature.PublicKeyBytes(pk)

	tt := []struct {
		name string
		sig  []byte
		pub  []byte
	}{
		{"empty-sig", nil, pub},
		{"short-sig", sig[:10], pub},
		{"empty-pub", sig, nil},
		{"short-pub", sig, pub[:20]},
		{"garbage-pub", sig, make([]byte, 65)},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if signature.Verify(data, tst.sig, tst.pub) {
				t.Fatalf("\t%s\tShould treat malformed input as a failed verification.", failed)
			}
			t.Logf("\t%s\tShould treat malformed input as a failed verification.", success)
		}

		t.Run(tst.name, f)
	}
}

func Test_AddressFromPublicKey(t *testing.T) {
	pk := signature.GenesisKey()

	addr, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(pk))
	if err != nil {
		t.Fatalf("Should be able to derive an address: %s", err)
	}

	if addr.Hex() != from {
		t.Logf("got: %s", addr.Hex())
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address.")
	}

	if _, err := signature.AddressFromPublicKey([]byte{1, 2, 3}); err == nil {
		t.Fatalf("Should not derive an address from a malformed public key.")
	}
}

func Test_Hash(t *testing.T) {
	const exp = "0xf230c1e86080832e1ee4b653b904df6812d74ef8e306c4112adaffeeb70bf09a"

	h := signature.HashString("00011718210e0b3b608814e04e61fde06d0df794319a12162f287412df3ec920")
	if h.Hex() != exp {
		t.Logf("got: %s", h.Hex())
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get back the right hash.")
	}

	if signature.Hash([]byte("0001"), []byte("1718")) != signature.HashString("00011718") {
		t.Fatalf("Should hash the concatenation of the parts.")
	}
}
