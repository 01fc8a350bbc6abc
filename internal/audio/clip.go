// Package audio captures and plays short speech clips through the host's
// command-line audio tools.
package audio

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// MIMEWAV is the MIME type of every clip this package produces.
const MIMEWAV = "audio/wav"

// Recording format used by the default recorders.
const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
	bitsPerSample     = 16
	wavHeaderSize     = 44
)

// Clip is an encoded audio sample.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the clip carries no audio frames.
func (c *Clip) Empty() bool {
	if c == nil || len(c.Data) == 0 {
		return true
	}
	if c.MIMEType == MIMEWAV || strings.HasPrefix(string(c.Data), "RIFF") {
		return len(c.Data) <= wavHeaderSize
	}
	return false
}

// EncodeWAV wraps raw 16-bit signed little-endian PCM in a RIFF/WAV
// container.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataSize := len(pcm)

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	copy(buf[44:], pcm)

	return buf
}

// PCMRate extracts the sample rate from a raw PCM MIME type such as
// "audio/L16;codec=pcm;rate=24000".
func PCMRate(mimeType string) (int, bool) {
	for _, param := range strings.Split(mimeType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return 0, false
		}
		return rate, true
	}
	return 0, false
}

// IsRawPCM reports whether mimeType names headerless 16-bit PCM.
func IsRawPCM(mimeType string) bool {
	base, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	base = strings.TrimSpace(base)
	return base == "audio/l16" || base == "audio/pcm"
}
