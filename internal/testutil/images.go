package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
)

// PNGClaimingSize returns a valid 1x1 PNG whose header declares width x height.
// Decoding the header succeeds; decoding the pixels would try to allocate the full canvas.
func PNGClaimingSize(width, height uint32) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	data := buf.Bytes()

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc over type+data
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}
