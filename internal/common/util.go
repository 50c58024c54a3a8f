package common

// WipeByteArray overwrites b with zeros. Passwords read from the terminal are
// wiped this way once they have been sent to the backend.
//
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
