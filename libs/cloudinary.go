package libs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Enabled reports whether Cloudinary credentials are present. Without them
// profile photos stay on local disk under UPLOAD_DIR.
func Enabled() bool {
	return os.Getenv("CLOUDINARY_URL") != ""
}

// UploadToCloudinary pushes a local file and returns the hosted URL.
func UploadToCloudinary(localPath string) (string, error) {
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", localPath)
	}

	cldURL := os.Getenv("CLOUDINARY_URL")
	if cldURL == "" {
		return "", fmt.Errorf("CLOUDINARY_URL not set")
	}

	cld, err := cloudinary.NewFromURL(cldURL)
	if err != nil {
		return "", fmt.Errorf("cloudinary init failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: "carhub/profiles",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}

	return resp.SecureURL, nil
}
