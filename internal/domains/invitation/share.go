package invitation

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform is a share target for the sharing panel.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformFacebook Platform = "facebook"
	PlatformTwitter  Platform = "twitter"
	PlatformEmail    Platform = "email"
	PlatformSMS      Platform = "sms"
)

// Platforms lists every supported share target.
var Platforms = []Platform{
	PlatformWhatsApp,
	PlatformFacebook,
	PlatformTwitter,
	PlatformEmail,
	PlatformSMS,
}

// ShareLink derives the canonical public URL of an invitation.
func ShareLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/invitation/" + id
}

// ShareText composes the invitation message interpolated with the couple's
// names.
func ShareText(bride, groom string) string {
	return fmt.Sprintf("You are cordially invited to join %s & %s on their special day! 💕", bride, groom)
}

// ShareURL builds the platform-specific URL or protocol-handler URL that
// opens a prefilled share composer.
func ShareURL(platform Platform, link, text string) (string, error) {
	switch platform {
	case PlatformWhatsApp:
		return "https://wa.me/?text=" + url.QueryEscape(text+" "+link), nil
	case PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(link), nil
	case PlatformTwitter:
		return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text) + "&url=" + url.QueryEscape(link), nil
	case PlatformEmail:
		return "mailto:?subject=" + url.QueryEscape("Wedding Invitation") + "&body=" + url.QueryEscape(text+" "+link), nil
	case PlatformSMS:
		return "sms:?&body=" + url.QueryEscape(text+" "+link), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
}

// AllShareURLs builds the full platform map for the sharing panel.
func AllShareURLs(link, text string) map[string]string {
	urls := make(map[string]string, len(Platforms))
	for _, platform := range Platforms {
		u, err := ShareURL(platform, link, text)
		if err != nil {
			continue
		}
		urls[string(platform)] = u
	}
	return urls
}
