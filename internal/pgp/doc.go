// Package pgp wraps OpenPGP for git-secret.
//
// It provides the two capabilities the hide and reveal pipelines consume:
//
//	Encrypt(plaintext, recipients, armored) -> ciphertext
//	Decrypt(ciphertext, privateKey, passphrase) -> plaintext
//
// and a small key model (Key) exposing what the keyring needs: user IDs,
// key ID, fingerprint, expiry, and whether a key carries private material.
//
// Both armored and binary encodings are accepted on input. Armor is
// detected from content, so a ciphertext's file name does not matter.
package pgp
