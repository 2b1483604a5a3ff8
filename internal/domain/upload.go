package domain

// UploadCredentials is a short-lived signed parameter set permitting a
// direct client upload to the media CDN. Token/Expire/Signature carry the
// CDN's authentication-parameter format; UploadURL and Headers are set by
// issuers that hand out a presigned target instead.
type UploadCredentials struct {
	Token     string            `json:"token"`
	Expire    int64             `json:"expire"`
	Signature string            `json:"signature,omitempty"`
	UploadURL string            `json:"uploadUrl,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}
