// Package inventory turns the base64/gzip/NBT inventory blob returned by the
// SkyBlock profile API into item counts.
package inventory

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"craftwiz/internal/logging"
	"craftwiz/internal/nbt"
)

// maxDecompressed caps the inflated NBT document and with it how deep the
// wire decoder can recurse. Real inventories are a few kilobytes.
const maxDecompressed = 4 << 20

// Decode unwraps base64 → gzip → NBT and returns the root compound.
func Decode(encoded string) (nbt.Compound, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxDecompressed+1))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if len(data) > maxDecompressed {
		return nil, fmt.Errorf("gzip: document larger than %d bytes", maxDecompressed)
	}
	_, root, err := nbt.Decode(data)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// DecodeBlob is Decode with the failure policy the pipeline relies on: any
// error is logged and an empty compound returned, so a bad blob degrades to
// "no items" instead of aborting the run.
func DecodeBlob(encoded string) nbt.Compound {
	if strings.TrimSpace(encoded) == "" {
		return nbt.Compound{}
	}
	root, err := Decode(encoded)
	if err != nil {
		logging.Warn("Error decoding inventory data", zap.Error(err))
		return nbt.Compound{}
	}
	return root
}

// Encode is the inverse of Decode.
func Encode(root nbt.Compound) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := nbt.Encode(zw, "", root); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
