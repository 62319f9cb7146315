package pgp

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/gitsecret/internal/errors"

	"github.com/ProtonMail/go-crypto/openpgp"
)

var armorPrefix = []byte("-----BEGIN PGP")

// Key is a parsed OpenPGP key.
type Key struct {
	entity *openpgp.Entity
}

// ReadKey parses the first key in armored or binary data.
func ReadKey(data []byte) (*Key, error) {
	keys, err := ReadKeys(data)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

// ReadKeys parses every key in armored or binary data.
func ReadKeys(data []byte) ([]*Key, error) {
	var (
		list openpgp.EntityList
		err  error
	)
	if IsArmored(data) {
		list, err = openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	} else {
		list, err = openpgp.ReadKeyRing(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKey, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no keys found", kerrors.ErrInvalidKey)
	}

	keys := make([]*Key, len(list))
	for i, e := range list {
		keys[i] = &Key{entity: e}
	}
	return keys, nil
}

// IsArmored reports whether data starts with an ASCII armor header.
func IsArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), armorPrefix)
}

// IsPrivate reports whether the key carries private key material.
func (k *Key) IsPrivate() bool {
	return k.entity.PrivateKey != nil
}

// KeyID returns the 16-digit lower-case hex key ID.
func (k *Key) KeyID() string {
	return strings.ToLower(k.entity.PrimaryKey.KeyIdString())
}

// Fingerprint returns the lower-case hex fingerprint of the primary key.
func (k *Key) Fingerprint() string {
	return hex.EncodeToString(k.entity.PrimaryKey.Fingerprint[:])
}

// UserIDs returns the key's user IDs, sorted.
func (k *Key) UserIDs() []string {
	ids := make([]string, 0, len(k.entity.Identities))
	for name := range k.entity.Identities {
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids
}

// Emails returns the lower-cased email addresses found in the key's user IDs.
func (k *Key) Emails() []string {
	var emails []string
	seen := make(map[string]bool)
	for _, id := range k.UserIDs() {
		email := EmailFromUserID(id)
		if ident := k.entity.Identities[id]; ident != nil && ident.UserId != nil && ident.UserId.Email != "" {
			email = strings.ToLower(ident.UserId.Email)
		}
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}
	return emails
}

// PrimaryUserID returns the first user ID containing an email address, or
// the first user ID when none does.
func (k *Key) PrimaryUserID() string {
	ids := k.UserIDs()
	for _, id := range ids {
		if strings.Contains(id, "@") {
			return id
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Expiration returns when the key expires. ok is false for keys without expiry.
func (k *Key) Expiration() (expires time.Time, ok bool) {
	created := k.entity.PrimaryKey.CreationTime
	for _, id := range k.entity.Identities {
		sig := id.SelfSignature
		if sig == nil || sig.KeyLifetimeSecs == nil || *sig.KeyLifetimeSecs == 0 {
			continue
		}
		t := created.Add(time.Duration(*sig.KeyLifetimeSecs) * time.Second)
		if !ok || t.After(expires) {
			expires, ok = t, true
		}
	}
	return expires, ok
}

// SerializeArmored writes the public part of the key in armored form.
func (k *Key) SerializeArmored(w io.Writer) error {
	aw, err := armorEncode(w, openpgp.PublicKeyType)
	if err != nil {
		return err
	}
	if err := k.entity.Serialize(aw); err != nil {
		aw.Close()
		return err
	}
	return aw.Close()
}

// EmailFromUserID extracts the address from a "Name <email>" user ID, or
// returns the input when it is a bare address.
func EmailFromUserID(id string) string {
	if addr, err := mail.ParseAddress(id); err == nil {
		return strings.ToLower(addr.Address)
	}
	if start := strings.LastIndex(id, "<"); start >= 0 {
		if end := strings.LastIndex(id, ">"); end > start {
			return strings.ToLower(strings.TrimSpace(id[start+1 : end]))
		}
	}
	return ""
}
