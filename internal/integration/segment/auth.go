package segment

import "encoding/base64"

// AuthorizationHeader returns the Authorization header value for a write key.
// The write key is the Basic username and the password is always empty.
func AuthorizationHeader(writeKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(writeKey+":"))
}
