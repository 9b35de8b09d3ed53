package detector

import "strings"

// Device buckets. Mobile and tablet keywords are tested before the generic
// desktop tokens: most mobile user agents also contain "mozilla".
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

var mobileKeywords = []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone", "opera mini"}

var tabletKeywords = []string{"tablet", "ipad", "kindle", "silk"}

var desktopKeywords = []string{"mozilla", "windows", "macintosh", "x11", "linux"}

// DetectDeviceType classifies a user agent into a device bucket.
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, keyword := range mobileKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceMobile
		}
	}

	for _, keyword := range tabletKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceTablet
		}
	}

	for _, keyword := range desktopKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceDesktop
		}
	}

	return DeviceUnknown
}
