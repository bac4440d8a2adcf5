// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package tempstore

import "encoding/binary"

// Speech synthesis always yields raw PCM in this format.
const (
	wavSampleRate    = 24000
	wavBitsPerSample = 16
	wavChannels      = 1
	wavHeaderSize    = 44
)

// EncodeWAV prefixes raw 24kHz 16-bit mono PCM with the canonical 44-byte
// RIFF/WAVE header, producing a playable file.
func EncodeWAV(pcm []byte) []byte {
	byteRate := wavSampleRate * wavChannels * wavBitsPerSample / 8
	blockAlign := wavChannels * wavBitsPerSample / 8
	dataSize := len(pcm)

	out := make([]byte, wavHeaderSize+dataSize)
	h := out[:wavHeaderSize]

	// RIFF chunk descriptor
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataSize))
	copy(h[8:12], "WAVE")

	// fmt sub-chunk
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], wavChannels)
	binary.LittleEndian.PutUint32(h[24:28], wavSampleRate)
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], wavBitsPerSample)

	// data sub-chunk
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))

	copy(out[wavHeaderSize:], pcm)
	return out
}
