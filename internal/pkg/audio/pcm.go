package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// Sample rates fixed by the speech model contract: the client sends 16 kHz
// mono PCM16, the model answers at 24 kHz.
const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
)

// Float32ToPCM16 converts normalized [-1,1] samples to little-endian
// 16-bit PCM bytes.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// PCM16ToFloat32 converts little-endian 16-bit PCM bytes to normalized
// float samples.
func PCM16ToFloat32(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("pcm16 payload has odd length %d", len(data))
	}
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out, nil
}

// EncodeFrame base64-encodes a PCM16 input frame for a realtime-input event.
func EncodeFrame(pcm []byte) string {
	return base64.StdEncoding.EncodeToString(pcm)
}

// DecodeChunk decodes a base64 model audio chunk into float samples.
func DecodeChunk(b64 string) ([]float32, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding audio chunk: %w", err)
	}
	return PCM16ToFloat32(data)
}

// ChunkDuration returns the playback duration of a sample buffer at the
// given rate.
func ChunkDuration(sampleCount int, sampleRate int) time.Duration {
	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))
}
