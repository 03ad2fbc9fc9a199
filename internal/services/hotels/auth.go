package hotels

import "net/http"

// signRequest adds the RapidAPI gateway headers
func signRequest(req *http.Request, host, apiKey, userAgent string) {
	req.Header.Set("x-rapidapi-host", host)
	req.Header.Set("x-rapidapi-key", apiKey)
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
}
