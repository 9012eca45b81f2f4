package klaviyo

// Version is the library version reported in the User-Agent header.
const Version = "1.0.0"

// UserAgent returns the User-Agent sent on private requests.
func UserAgent() string {
	return "klaviyo-go/" + Version
}
