package model

// UserProfile is the only durable data in the system: the display name shown
// to message recipients and an optional preset recipient phone. An empty
// RecipientPhone means "no preset recipient" and the messaging app's own
// contact chooser is used on send.
type UserProfile struct {
	DisplayName    string `json:"display_name"`
	RecipientPhone string `json:"recipient_phone,omitempty"`
}

// LocationFix is one high-accuracy position read. BatteryPercent is nil when
// the battery provider is unavailable; its absence never aborts a send.
type LocationFix struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	BatteryPercent *int    `json:"battery_percent,omitempty"`
}

// OutgoingMessage carries the human-readable text and the messaging-app deep
// link built from a profile and a fix. DeepLinkURL is always a valid
// whatsapp:// URL even without a recipient phone.
type OutgoingMessage struct {
	Text        string `json:"text"`
	DeepLinkURL string `json:"deep_link_url"`
}

type UIState string

const (
	StateCheckingStoredProfile UIState = "checking_stored_profile"
	StateOnboarding            UIState = "onboarding"
	StateReady                 UIState = "ready"
	StateLocating              UIState = "locating"
)

// FormDraft holds the onboarding form values, pre-filled when the user edits
// an existing profile.
type FormDraft struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SubmitProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type FormatPhoneRequest struct {
	Input string `json:"input"`
}

type FormatPhoneResponse struct {
	Formatted       string `json:"formatted"`
	DismissKeyboard bool   `json:"dismiss_keyboard"`
}

type StateResponse struct {
	State         UIState   `json:"state"`
	StatusMessage string    `json:"status_message"`
	Draft         FormDraft `json:"draft"`
}
