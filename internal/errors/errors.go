package errors

import "errors"

// Repository errors indicate the project is not in a usable state.
var (
	// ErrNotInRepository indicates the working directory is not inside a git work tree.
	ErrNotInRepository = errors.New("not a git repository")

	// ErrNotInitialized indicates the secrets directory does not exist yet.
	ErrNotInitialized = errors.New("git-secret has not been initialized")

	// ErrAlreadyInitialized indicates init was run on an initialized project.
	ErrAlreadyInitialized = errors.New("git-secret is already initialized")

	// ErrSecretsDirIgnored indicates the secrets directory is matched by .gitignore.
	ErrSecretsDirIgnored = errors.New("secrets directory is ignored by git")

	// ErrInvalidProjectConfig indicates config.toml could not be decoded.
	ErrInvalidProjectConfig = errors.New("project configuration is invalid")
)

// Keyring errors indicate problems with the recipient set.
var (
	// ErrNoRecipients indicates hide was requested with an empty keyring.
	ErrNoRecipients = errors.New("no configured recipients")

	// ErrNoPublicKeys indicates an operation needs at least one public key.
	ErrNoPublicKeys = errors.New("no public keys for users found")

	// ErrInvalidKey indicates a key could not be parsed as OpenPGP.
	ErrInvalidKey = errors.New("invalid OpenPGP key")

	// ErrNotPublicKey indicates private key material was offered as a recipient.
	ErrNotPublicKey = errors.New("key is not a public key")

	// ErrDuplicateRecipient indicates the identity is already in the keyring.
	ErrDuplicateRecipient = errors.New("recipient already exists in the keyring")

	// ErrNoIdentity indicates no usable identity could be derived for a key.
	ErrNoIdentity = errors.New("could not determine an identity for the key")

	// ErrInvalidEmail indicates an identity is not an email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrKeyFileIdentities indicates a key file was given with several emails.
	ErrKeyFileIdentities = errors.New("a key file can only be imported for a single email or none")

	// ErrRecipientNotFound indicates no stored key matched an identity.
	ErrRecipientNotFound = errors.New("no key found for recipient")

	// ErrKeyExportFailed indicates the external key export (gpg) failed.
	ErrKeyExportFailed = errors.New("failed to export public key")
)

// File errors indicate per-entry problems during a pipeline run.
var (
	// ErrFileNotFound indicates a plaintext or ciphertext file is missing.
	ErrFileNotFound = errors.New("file not found")

	// ErrAlreadyExists indicates reveal would overwrite an existing plaintext file.
	ErrAlreadyExists = errors.New("file already exists")

	// ErrCiphertextTarget indicates a reveal target is itself a ciphertext path.
	ErrCiphertextTarget = errors.New("cannot decrypt to secret version of file")

	// ErrTrackedInGit indicates a file to add is committed to git in plaintext.
	ErrTrackedInGit = errors.New("file is tracked in git")

	// ErrInvalidPath indicates a path cannot be stored in the mapping.
	ErrInvalidPath = errors.New("invalid path")

	// ErrMalformedMapping indicates a line in mapping.cfg could not be parsed.
	ErrMalformedMapping = errors.New("malformed mapping entry")

	// ErrPermission indicates file mode bits could not be propagated.
	ErrPermission = errors.New("failed to preserve permissions")
)

// Crypto errors indicate failures reported by the OpenPGP layer.
var (
	// ErrEncryptFailed indicates file encryption failed.
	ErrEncryptFailed = errors.New("failed to encrypt file")

	// ErrDecryptFailed indicates file decryption failed.
	ErrDecryptFailed = errors.New("failed to decrypt file")

	// ErrPrivateKeyRequired indicates no private key was supplied for decryption.
	ErrPrivateKeyRequired = errors.New("private key is required")

	// ErrPassphraseRequired indicates the private key is locked and no passphrase was given.
	ErrPassphraseRequired = errors.New("private key is encrypted, but no passphrase was provided")

	// ErrInvalidPrivateKey indicates the private key is malformed or the passphrase is wrong.
	ErrInvalidPrivateKey = errors.New("invalid or locked private key")
)

// Audit log errors.
var (
	// ErrInvalidDateFormat indicates a --since or --until value is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
