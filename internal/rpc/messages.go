// Package rpc defines the CloudStore gRPC service: its messages, the CBOR
// codec they travel in, and the service descriptor used by both the server
// and the client. Messages use integer CBOR keys, so field keys must never
// be reused for a different meaning.
package rpc

type PingRequest struct{}

type PingResponse struct {
	Status string `cbor:"1,keyasint,omitempty"`
}

type LoginRequest struct {
	Login    string `cbor:"1,keyasint,omitempty"`
	Password string `cbor:"2,keyasint,omitempty"`
}

type LoginResponse struct {
	Token string `cbor:"1,keyasint,omitempty"`
}

// LogoutRequest is empty: the token to revoke travels in metadata.
type LogoutRequest struct{}

type LogoutResponse struct{}

type ListRequest struct {
	Limit int32 `cbor:"1,keyasint,omitempty"`
}

type FileInfo struct {
	Filename string `cbor:"1,keyasint,omitempty"`
	Size     int64  `cbor:"2,keyasint,omitempty"`
}

type ListResponse struct {
	Files []FileInfo `cbor:"1,keyasint,omitempty"`
}

type UploadRequest struct {
	Filename    string `cbor:"1,keyasint,omitempty"`
	ContentType string `cbor:"2,keyasint,omitempty"`
	Data        []byte `cbor:"3,keyasint,omitempty"`
}

type UploadResponse struct{}

type RenameRequest struct {
	Filename    string `cbor:"1,keyasint,omitempty"`
	NewFilename string `cbor:"2,keyasint,omitempty"`
}

type RenameResponse struct{}

type DeleteRequest struct {
	Filename string `cbor:"1,keyasint,omitempty"`
}

type DeleteResponse struct{}

type DownloadRequest struct {
	Filename string `cbor:"1,keyasint,omitempty"`
}

type DownloadResponse struct {
	Filename    string `cbor:"1,keyasint,omitempty"`
	ContentType string `cbor:"2,keyasint,omitempty"`
	Data        []byte `cbor:"3,keyasint,omitempty"`
}
