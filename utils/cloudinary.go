package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Object store folders. Every uploaded file lands in one of these, keyed
// by upload timestamp plus the original filename.
const (
	FolderScreenshots      = "screenshots"
	FolderMembershipCards  = "membership_cards"
	FolderEventPosters     = "event_posters"
	FolderPastEventPosters = "past_event_posters"
	FolderQRCodes          = "qr_codes"
)

func getCloudinaryInstance() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

// UploadFile stores one attachment under folder/{unixms}_{filename} and
// returns its retrieval URL. Only the URL is ever persisted on a record,
// never the bytes.
func UploadFile(file multipart.File, fileHeader *multipart.FileHeader, folder string) (string, error) {
	return uploadWithKey(file, folder, StorageKey(fileHeader.Filename))
}

// UploadPastEventPoster stores a past-event poster with its slot number
// in the key, past_event_posters/{unixms}_slot{n}_{filename}.
func UploadPastEventPoster(file multipart.File, fileHeader *multipart.FileHeader, slot int) (string, error) {
	key := fmt.Sprintf("%d_slot%d_%s", time.Now().UnixMilli(), slot, fileHeader.Filename)
	return uploadWithKey(file, FolderPastEventPosters, key)
}

func uploadWithKey(file multipart.File, folder, key string) (string, error) {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return "", fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	uploadResp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: key,
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}

	return uploadResp.SecureURL, nil
}

// StorageKey builds the object name for an upload happening now.
func StorageKey(filename string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filename)
}
