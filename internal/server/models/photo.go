package models

import "time"

// PhotoUpload is a one-off permission to PUT a profile photo. PhotoURL is
// where the object can be read once uploaded; it is what goes into the
// profile's photoURL.
type PhotoUpload struct {
	UploadURL string    `json:"uploadURL"`
	PhotoURL  string    `json:"photoURL"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}
