package intake

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

// compactQuality keeps converted protocol scans readable while cutting
// their size substantially.
const compactQuality = 80

// ConvertToCompact re-encodes an accepted protocol scan into a compact
// JPEG. The caller swaps the stored blob; conversion failures are
// best-effort and never undo an accepted intake.
func ConvertToCompact(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored protocol: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: compactQuality}); err != nil {
		return nil, fmt.Errorf("JPEG encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
