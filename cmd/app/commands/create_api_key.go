package commands

import (
	"fmt"
	"io"
)

// APIKeyGenerator creates a new API key and its stored hash.
type APIKeyGenerator interface {
	Generate() (plainKey string, hashedKey string, err error)
}

// RunCreateAPIKey prints a new API key and the hash to append to API_KEY_HASHES.
// The plain key is shown once and never stored.
func RunCreateAPIKey(generator APIKeyGenerator, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plainKey, hashedKey, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"api_key":      plainKey,
			"api_key_hash": hashedKey,
		})
	}

	_, err = fmt.Fprintf(
		writer,
		"API key (shown once): %s\n\n# Append to API_KEY_HASHES (semicolon-separated)\nAPI_KEY_HASHES=\"%s\"\n",
		plainKey,
		hashedKey,
	)
	return err
}
