package twitterapi

// apiHeaders returns the base headers required by the twitterapi.io API.
func apiHeaders(apiKey string) map[string]string {
	return map[string]string{
		"x-api-key":       apiKey,
		"accept":          "application/json",
		"accept-language": "en-US,en;q=0.9",
	}
}

// postHeaders returns headers for JSON mutation requests.
func postHeaders(apiKey string) map[string]string {
	h := apiHeaders(apiKey)
	h["content-type"] = "application/json"
	return h
}

// apiHeaderOrder keeps header ordering stable across requests.
var apiHeaderOrder = []string{
	"x-api-key",
	"content-type",
	"accept",
	"accept-language",
	"user-agent",
	"accept-encoding",
}
