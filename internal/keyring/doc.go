// Package keyring manages the set of recipients allowed to decrypt secrets.
//
// The keyring is a directory (keys/ under the secrets directory) holding one
// armored public key per file. File names are derived from the recipient's
// email plus the key ID, so re-importing a key for the same address never
// overwrites an existing file:
//
//	keys/alice_example.com.3f2a9c1b7d4e5f60.asc
//
// Any change to the recipient set makes existing ciphertext stale: it was
// produced for the previous set. Keyring therefore calls its Invalidator
// after every successful add or remove, which clears all stored
// fingerprints so the next hide re-encrypts every file.
package keyring
