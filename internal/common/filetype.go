package common

import "strings"

// AttachmentFileType classifies uploaded attachment blobs
type AttachmentFileType string

const (
	AttachmentFileTypeImage AttachmentFileType = "image"
	AttachmentFileTypeAudio AttachmentFileType = "audio"
	AttachmentFileTypeFile  AttachmentFileType = "file"
)

// String returns the string representation
func (aft AttachmentFileType) String() string {
	return string(aft)
}

// IsValid checks if the attachment file type is valid
func (aft AttachmentFileType) IsValid() bool {
	return aft == AttachmentFileTypeImage || aft == AttachmentFileTypeAudio || aft == AttachmentFileTypeFile
}

func DetectFileType(mimeType string) AttachmentFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "image/") {
		return AttachmentFileTypeImage
	}
	if strings.HasPrefix(lowerMimeType, "audio/") {
		return AttachmentFileTypeAudio
	}
	return AttachmentFileTypeFile // Default fallback
}
