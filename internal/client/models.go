package client

// FileInfo is one entry of a listing.
type FileInfo struct {
	Filename string
	Size     int64
}

// File is a downloaded file.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}
