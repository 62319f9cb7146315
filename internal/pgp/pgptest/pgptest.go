// Package pgptest generates throwaway OpenPGP keys for tests.
package pgptest

import (
	"bytes"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// KeyPair holds the armored halves of a generated key.
type KeyPair struct {
	Name    string
	Email   string
	Public  []byte
	Private []byte
	KeyID   string
}

// UserID returns the "Name <email>" user ID of the key.
func (kp KeyPair) UserID() string {
	return kp.Name + " <" + kp.Email + ">"
}

// NewKeyPair generates an unprotected key pair.
func NewKeyPair(t testing.TB, name, email string) KeyPair {
	t.Helper()
	return generate(t, name, email, "")
}

// NewLockedKeyPair generates a key pair whose private half needs passphrase.
func NewLockedKeyPair(t testing.TB, name, email, passphrase string) KeyPair {
	t.Helper()
	return generate(t, name, email, passphrase)
}

func generate(t testing.TB, name, email, passphrase string) KeyPair {
	t.Helper()

	config := &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}
	e, err := openpgp.NewEntity(name, "", email, config)
	if err != nil {
		t.Fatalf("Failed to generate key for %s: %v", email, err)
	}

	var pub bytes.Buffer
	w, err := armor.Encode(&pub, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to armor public key: %v", err)
	}
	if err := e.Serialize(w); err != nil {
		t.Fatalf("Failed to serialize public key: %v", err)
	}
	w.Close()

	var priv bytes.Buffer
	w, err = armor.Encode(&priv, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to armor private key: %v", err)
	}
	if passphrase == "" {
		if err := e.SerializePrivate(w, config); err != nil {
			t.Fatalf("Failed to serialize private key: %v", err)
		}
	} else {
		if err := e.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
			t.Fatalf("Failed to lock private key: %v", err)
		}
		for _, sub := range e.Subkeys {
			if err := sub.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
				t.Fatalf("Failed to lock private subkey: %v", err)
			}
		}
		if err := e.SerializePrivateWithoutSigning(w, config); err != nil {
			t.Fatalf("Failed to serialize private key: %v", err)
		}
	}
	w.Close()

	return KeyPair{
		Name:    name,
		Email:   email,
		Public:  pub.Bytes(),
		Private: priv.Bytes(),
		KeyID:   lowerHex(e.PrimaryKey.KeyIdString()),
	}
}

func lowerHex(s string) string {
	return string(bytes.ToLower([]byte(s)))
}
