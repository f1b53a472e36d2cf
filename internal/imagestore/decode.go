package imagestore

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeBase64 accepts padded and unpadded payloads; converters differ.
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return raw, nil
	}
	raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if rawErr != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return raw, nil
}
