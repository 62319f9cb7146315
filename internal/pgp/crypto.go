package pgp

import (
	"bytes"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

const messageType = "PGP MESSAGE"

// Engine performs OpenPGP encryption and decryption.
type Engine struct {
	// Config tunes cipher and compression choices; nil uses library defaults.
	Config *packet.Config
}

// Encrypt encrypts plaintext so that any of the recipients can decrypt it.
func (e Engine) Encrypt(plaintext []byte, recipients []*Key, armored bool) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, kerrors.ErrNoRecipients
	}

	to := make(openpgp.EntityList, len(recipients))
	for i, r := range recipients {
		to[i] = r.entity
	}

	var buf bytes.Buffer
	var out io.WriteCloser = nopCloser{&buf}
	if armored {
		aw, err := armorEncode(&buf, messageType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
		}
		out = aw
	}

	hints := &openpgp.FileHints{IsBinary: !armored}
	w, err := openpgp.Encrypt(out, to, nil, hints, e.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts an armored or binary message with the given private key.
// A locked key needs its passphrase.
func (e Engine) Decrypt(ciphertext, privateKey, passphrase []byte) ([]byte, error) {
	keyring, err := UnlockPrivateKey(privateKey, passphrase)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(ciphertext)
	if IsArmored(ciphertext) {
		block, err := armor.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
		}
		r = block.Body
	}

	md, err := openpgp.ReadMessage(r, keyring, nil, e.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	// Integrity errors surface once the body has been read to the end.
	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	return plaintext, nil
}

// UnlockPrivateKey parses private key material and decrypts it with the
// passphrase when it is locked.
func UnlockPrivateKey(privateKey, passphrase []byte) (openpgp.EntityList, error) {
	if len(bytes.TrimSpace(privateKey)) == 0 {
		return nil, kerrors.ErrPrivateKeyRequired
	}

	keys, err := ReadKeys(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}

	list := make(openpgp.EntityList, 0, len(keys))
	for _, k := range keys {
		if !k.IsPrivate() {
			continue
		}
		if err := unlock(k.entity, passphrase); err != nil {
			return nil, err
		}
		list = append(list, k.entity)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no private key material found", kerrors.ErrInvalidPrivateKey)
	}

	return list, nil
}

// IsLocked reports whether any private key in data needs a passphrase.
func IsLocked(privateKey []byte) bool {
	keys, err := ReadKeys(privateKey)
	if err != nil {
		return false
	}
	for _, k := range keys {
		if k.entity.PrivateKey != nil && k.entity.PrivateKey.Encrypted {
			return true
		}
		for _, sub := range k.entity.Subkeys {
			if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
				return true
			}
		}
	}
	return false
}

func unlock(e *openpgp.Entity, passphrase []byte) error {
	keys := []*packet.PrivateKey{e.PrivateKey}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil {
			keys = append(keys, sub.PrivateKey)
		}
	}

	for _, pk := range keys {
		if !pk.Encrypted {
			continue
		}
		if len(passphrase) == 0 {
			return kerrors.ErrPassphraseRequired
		}
		if err := pk.Decrypt(passphrase); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
		}
	}
	return nil
}

func armorEncode(w io.Writer, blockType string) (io.WriteCloser, error) {
	return armor.Encode(w, blockType, nil)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
