package crypto

const (
	// KeySize is the size of an AES-256 key in bytes.
	KeySize = 32
	// IVSize is the size of a CBC initialization vector in bytes.
	IVSize = 16
	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	// KeyHexLen is the length of a hex-encoded key.
	KeyHexLen = KeySize * 2
	// IVHexLen is the length of a hex-encoded IV.
	IVHexLen = IVSize * 2

	// TokenSize is the size of an opaque secret identifier in bytes.
	TokenSize = 32
	// TokenHexLen is the length of a hex-encoded secret identifier.
	TokenHexLen = TokenSize * 2

	// PinHashLen is the length of a hex-encoded SHA-256 PIN digest.
	PinHashLen = 64
)

// CipherSuite is the canonical string representation of the algorithm suite.
var CipherSuite = "AES-256-CBC:PKCS7:SHA-256"
