package pcm

import "encoding/binary"

// EncodeLE16 converts normalized float32 samples to 16-bit signed
// little-endian PCM. Samples outside [-1, 1] are clamped, never rejected.
// The conversion is pure and deterministic: negative samples scale by
// 32768, positive by 32767, so both rails map to full scale.
func EncodeLE16(samples []float32) []byte {
	return AppendLE16(make([]byte, 0, len(samples)*2), samples)
}

// AppendLE16 appends the little-endian PCM encoding of samples to dst
// and returns the extended slice.
func AppendLE16(dst []byte, samples []float32) []byte {
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 32768)
		} else {
			v = int16(s * 32767)
		}
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}

// DecodeLE16 converts 16-bit signed little-endian PCM bytes to normalized
// float32 samples in [-1, 1). A trailing odd byte is ignored.
func DecodeLE16(data []byte) []float32 {
	samples := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		v := int16(binary.LittleEndian.Uint16(data[i:]))
		samples = append(samples, float32(v)/32768)
	}
	return samples
}
