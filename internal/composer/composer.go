// Package composer builds the outgoing message text and the messaging-app
// deep link. Everything here is pure: inputs are validated upstream and no
// call has a failure mode.
package composer

import (
	"fmt"
	"net/url"
	"strconv"

	"locshare/internal/model"
)

const (
	mapURLTemplate = "https://www.google.com/maps/search/?api=1&query=%s,%s"
	deepLinkScheme = "whatsapp://send"
)

// Compose renders the notification text and deep link for one send attempt.
// The deep link is a valid whatsapp:// URL even without a recipient phone;
// the messaging app then falls back to its own contact chooser.
func Compose(name string, fix model.LocationFix, recipientPhone string) model.OutgoingMessage {
	mapURL := fmt.Sprintf(mapURLTemplate, formatCoordinate(fix.Latitude), formatCoordinate(fix.Longitude))

	batteryInfo := ""
	if fix.BatteryPercent != nil {
		batteryInfo = fmt.Sprintf(" (Bateria: %d%%)", *fix.BatteryPercent)
	}

	text := fmt.Sprintf("Olá, aqui é %s. Estou neste local: %s%s", name, mapURL, batteryInfo)

	deepLink := deepLinkScheme + "?text=" + url.QueryEscape(text)
	if phone := NormalizePhone(recipientPhone); phone != "" {
		deepLink += "&phone=" + phone
	}

	return model.OutgoingMessage{
		Text:        text,
		DeepLinkURL: deepLink,
	}
}

// formatCoordinate passes the full sensor precision through, with no
// rounding or truncation.
func formatCoordinate(degrees float64) string {
	return strconv.FormatFloat(degrees, 'f', -1, 64)
}
