package envelope

import "fmt"

// ErrInvalidData mirrors §7's InvalidData(msg), raised for
// self-inconsistent envelope fields (e.g. a PQ flag without its block).
type ErrInvalidData struct {
	Msg string
}

func (e ErrInvalidData) Error() string { return "envelope: invalid data: " + e.Msg }

// ErrUnexpectedLength mirrors §7's UnexpectedLength(expected, actual).
type ErrUnexpectedLength struct {
	Expected, Actual int
}

func (e ErrUnexpectedLength) Error() string {
	return fmt.Sprintf("envelope: unexpected length: expected %d, got %d", e.Expected, e.Actual)
}

// ErrUnknownVersion is raised for any packet version outside the
// supported set (§3: "Unknown version ⇒ fatal decode error").
type ErrUnknownVersion struct {
	Version uint64
}

func (e ErrUnknownVersion) Error() string {
	return fmt.Sprintf("envelope: unknown version %d", e.Version)
}

// ErrDecryptionFailed mirrors §7's DecryptionFailed: PSK lookup miss
// or AEAD authentication failure.
var ErrDecryptionFailed = fmt.Errorf("envelope: decryption failed")

// ErrIntegrityFailed mirrors §7's IntegrityFailed: MAC mismatch.
// Per §7, this is fatal for the affected packet only — the caller
// decides whether to drop the connection.
var ErrIntegrityFailed = fmt.Errorf("envelope: integrity check failed")
