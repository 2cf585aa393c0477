package service

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"

	"paraverse/internal/model"
)

// allowedAvatarTypes is the accepted upload MIME allow-list.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AvatarService validates and normalizes profile pictures. Images are stored
// inline as base64 data URLs, downscaled so the encoded form stays small.
type AvatarService struct{}

func NewAvatarService() *AvatarService {
	return &AvatarService{}
}

// Process validates the upload and returns the data URL to store.
// Decodable formats are fit into a bounding box and re-encoded as JPEG;
// webp is kept as uploaded since it cannot be re-encoded here.
func (s *AvatarService) Process(data []byte, contentType string) (string, error) {
	if !allowedAvatarTypes[contentType] {
		return "", model.ErrInvalidImageType
	}
	if len(data) > model.MaxAvatarSizeBytes {
		return "", model.ErrImageTooLarge
	}

	encoded := data
	storedType := contentType
	if contentType != "image/webp" {
		resized, err := resizeToJPEG(data, model.AvatarMaxDimension, 85)
		if err != nil {
			return "", model.ErrInvalidImageType
		}
		encoded = resized
		storedType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", storedType, base64.StdEncoding.EncodeToString(encoded))
	if len(dataURL) > model.MaxAvatarEncodedLen {
		return "", model.ErrImageTooLarge
	}

	return dataURL, nil
}

// resizeToJPEG shrinks the image to fit within maxDim and encodes as JPEG.
func resizeToJPEG(data []byte, maxDim, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
