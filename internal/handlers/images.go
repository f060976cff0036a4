package handlers

import (
	"errors"
	"io"
	"net/http"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/storage"
)

// receiveImage stores the multipart "image" field under folder and returns
// its public URL. It writes the error response itself and returns false on
// failure.
func receiveImage(w http.ResponseWriter, r *http.Request, folder string, profileID uint) (string, bool) {
	if imageStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, storage.ErrNotConfigured.Error())
		return "", false
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+(64<<10))
	file, header, err := r.FormFile("image")
	if err != nil {
		applog.Debug(r.Context(), "image upload missing", "error", err)
		writeJSONError(w, http.StatusBadRequest, "image is required")
		return "", false
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "image is too large")
		return "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(file, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeJSONError(w, http.StatusBadRequest, "unable to read image")
			return "", false
		}
	}

	key, err := storage.ImageKey(folder, profileID, contentType)
	if err != nil {
		writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
		return "", false
	}

	url, err := imageStore.Upload(r.Context(), key, contentType, file)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return "", false
		}
		applog.Error(r.Context(), "image upload failed", "error", err, "key", key)
		writeJSONError(w, http.StatusBadGateway, "unable to store image")
		return "", false
	}
	applog.Info(r.Context(), "image uploaded", "key", key)
	return url, true
}
