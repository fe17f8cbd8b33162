package codec

import (
	"bytes"
	"os"
)

var gifMagic = []byte("GIF8")

// IsAnimated reports whether path is a multi-frame GIF. Non-GIF sources
// always report false, as does a GIF with a single frame.
//
// Detection scans the raw bytes for a graphic-control-extension marker
// (00 21 F9 04) followed within 8 bytes by an image-descriptor marker
// (00 2C). Each such pair delimits one frame; the file is animated once a
// second pair is found.
func IsAnimated(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if !bytes.HasPrefix(data, gifMagic) {
		return false
	}

	frames := 0
	for i := 0; i+5 < len(data); i++ {
		if data[i] != 0x00 || data[i+1] != 0x21 || data[i+2] != 0xF9 || data[i+3] != 0x04 {
			continue
		}
		end := i + 4 + 8
		if end > len(data)-2 {
			end = len(data) - 2
		}
		for j := i + 4; j <= end; j++ {
			if data[j] == 0x00 && data[j+1] == 0x2C {
				frames++
				break
			}
		}
		if frames >= 2 {
			return true
		}
	}
	return false
}
