package domain

// Zero overwrites b with zeros. Used to wipe keys and decrypted payloads.
func Zero(b []byte) {
	clear(b)
}
