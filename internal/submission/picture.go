package submission

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// EncodePicture turns raw image bytes into a data URL suitable for AttachPicture.
func EncodePicture(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported image type %q", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
