// internal/services/application/resolve-profile-picture/models.go
package resolveprofilepicture

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PayloadKey is the request key carrying the inline image.
const PayloadKey = "profilePictureBase64"

type Input struct {
	Payload  string `json:"profilePictureBase64"`
	FullName string `json:"fullName"`
}

type Output struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader is satisfied by the Cloudinary SDK's *uploader.API.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}
